package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/logger"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperr.Invalid("name", "is required"), want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", apperr.Invalid("name", "x")), want: http.StatusBadRequest},
		{name: "not found", err: apperr.NotFound("category", 1), want: http.StatusNotFound},
		{name: "in use", err: apperr.InUse("category", "has sizes"), want: http.StatusConflict},
		{name: "credentials", err: apperr.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "forbidden", err: apperr.ErrForbidden, want: http.StatusForbidden},
		{name: "other", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

type createRequest struct {
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantErr   bool
	}{
		{name: "valid", body: `{"name":"Pizza"}`},
		{name: "missing name", body: `{"email":"a@b.pl"}`, wantErr: true, wantField: "name"},
		{name: "too long", body: `{"name":"Pizza Margherita"}`, wantErr: true, wantField: "name"},
		{name: "bad email", body: `{"name":"x","email":"nope"}`, wantErr: true, wantField: "email"},
		{name: "unknown field", body: `{"name":"x","price":1}`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			var req createRequest
			err := DecodeJSON(r, &req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantField != "" {
				var ve apperr.ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantField {
					t.Errorf("expected field %s, got %v", tt.wantField, err)
				}
			}
		})
	}
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "12", "bad": "x"})

	if id, err := PathID(r, "id"); err != nil || id != 12 {
		t.Errorf("PathID(id) = %d, %v", id, err)
	}
	if _, err := PathID(r, "bad"); err == nil {
		t.Errorf("expected error for non-numeric id")
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard)
	handler := WithLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, log, "test_failed", errors.New("pq: password authentication failed"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Internal server error" {
		t.Errorf("error = %q", body["error"])
	}
	if body["request_id"] == "" || body["request_id"] != rec.Header().Get(RequestIDHeader) {
		t.Errorf("request id mismatch: body %q header %q", body["request_id"], rec.Header().Get(RequestIDHeader))
	}
}

func TestWriteError_ValidationField(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard)
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), log, "validation_failed", apperr.Invalid("lines", "order must contain at least one line"))

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if rec.Code != http.StatusBadRequest || body["field"] != "lines" || body["error"] != "order must contain at least one line" {
		t.Errorf("unexpected response %d %v", rec.Code, body)
	}
}
