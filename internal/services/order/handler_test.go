package order

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

func newTestRouter(store *fakeStore) *mux.Router {
	svc := newTestService(store, &fakePublisher{}, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	h := NewHandler(svc, logger.NewWithWriter("test", io.Discard))

	r := mux.NewRouter()
	tenantRouter := r.PathPrefix("/tenants/{tenantID}").Subrouter()
	tenantRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithSession(req.Context(), waiter())))
		})
	})
	h.RegisterRoutes(tenantRouter)
	return r
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name: "dine in with extra ham",
			body: `{"kind":"dine_in","payment_method":"cash","payment_status":"unpaid","table_number":"4",
				"lines":[{"product_id":1,"size_id":2,"quantity":1,"added":[12]}]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "no lines",
			body:       `{"kind":"dine_in","payment_method":"cash","payment_status":"unpaid","table_number":"4","lines":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown kind",
			body:       `{"kind":"drive_through","payment_method":"cash","payment_status":"unpaid","lines":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "takeout without phone",
			body: `{"kind":"takeout","payment_method":"card","payment_status":"paid",
				"lines":[{"product_id":1,"size_id":2,"quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			rec := serve(newTestRouter(store), http.MethodPost, "/tenants/1/orders", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				if store.creates != 0 {
					t.Errorf("store called for a rejected order")
				}
				return
			}

			var got models.Order
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Number != "250601-001" || got.TotalAmount.StringFixed(2) != "35.00" {
				t.Errorf("order = %s total %s", got.Number, got.TotalAmount)
			}
		})
	}
}

func TestHandler_DraftSubmit(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store)

	if rec := serve(router, http.MethodPost, "/tenants/1/draft/submit", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty draft submit status = %d, want 400", rec.Code)
	}

	rec := serve(router, http.MethodPost, "/tenants/1/draft/lines", `{"product_id":1,"size_id":2,"quantity":2,"removed":[10]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add line status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view DraftView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.State != DraftHasLines || view.Total.StringFixed(2) != "60.00" {
		t.Errorf("draft = %s total %s", view.State, view.Total)
	}

	rec = serve(router, http.MethodPut, "/tenants/1/draft/details", `{"kind":"dine_in","payment_method":"cash","payment_status":"unpaid","table_number":"7"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodPost, "/tenants/1/draft/submit", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	if store.creates != 1 {
		t.Errorf("store creates = %d, want 1", store.creates)
	}
}

func TestHandler_ChangeStatus(t *testing.T) {
	store := newFakeStore()
	store.orders[1] = &models.Order{ID: 1, TenantID: tenant, Status: models.StatusNew, OrderDetails: models.DefaultDetails()}
	store.nextID = 1
	router := newTestRouter(store)

	if rec := serve(router, http.MethodPatch, "/tenants/1/orders/1/status", `{"status":"served"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("skipping steps status = %d, want 400", rec.Code)
	}
	if rec := serve(router, http.MethodPatch, "/tenants/1/orders/1/status", `{"status":"preparing"}`); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if rec := serve(router, http.MethodPatch, "/tenants/1/orders/9/status", `{"status":"preparing"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want 404", rec.Code)
	}
}
