package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

type fakeRepo struct {
	tenants     map[int64]models.Tenant
	employees   map[int64]models.Employee
	positions   map[int64]models.Position
	assignments map[int64][]int64
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenants:     map[int64]models.Tenant{1: {ID: 1, Name: "Pizzeria Roma"}},
		employees:   map[int64]models.Employee{},
		positions:   map[int64]models.Position{},
		assignments: map[int64][]int64{},
		nextID:      100,
	}
}

func (f *fakeRepo) CreateTenant(_ context.Context, t *models.Tenant) error {
	f.nextID++
	t.ID = f.nextID
	f.tenants[t.ID] = *t
	return nil
}

func (f *fakeRepo) ListTenants(context.Context) ([]models.Tenant, error) {
	var out []models.Tenant
	for _, t := range f.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepo) GetTenant(_ context.Context, id int64) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, apperr.NotFound("tenant", id)
	}
	return &t, nil
}

func (f *fakeRepo) UpdateTenant(_ context.Context, t *models.Tenant) error {
	f.tenants[t.ID] = *t
	return nil
}

func (f *fakeRepo) DeleteTenant(_ context.Context, id int64) error {
	if _, ok := f.tenants[id]; !ok {
		return apperr.NotFound("tenant", id)
	}
	for eid, e := range f.employees {
		if e.TenantID == id {
			delete(f.employees, eid)
		}
	}
	delete(f.tenants, id)
	return nil
}

func (f *fakeRepo) CreateEmployee(_ context.Context, e *models.Employee) error {
	for _, other := range f.employees {
		if other.Login == e.Login {
			return apperr.Invalid("login", "is already taken")
		}
	}
	f.nextID++
	e.ID = f.nextID
	f.employees[e.ID] = *e
	return nil
}

func (f *fakeRepo) ListEmployees(_ context.Context, tenantID int64) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range f.employees {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetEmployee(_ context.Context, tenantID, id int64) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.TenantID != tenantID {
		return nil, apperr.NotFound("employee", id)
	}
	return &e, nil
}

func (f *fakeRepo) UpdateEmployee(_ context.Context, e *models.Employee, passwordHash string) error {
	stored := f.employees[e.ID]
	next := *e
	next.PasswordHash = stored.PasswordHash
	if passwordHash != "" {
		next.PasswordHash = passwordHash
	}
	f.employees[e.ID] = next
	return nil
}

func (f *fakeRepo) DeleteEmployee(_ context.Context, tenantID, id int64) error {
	if e, ok := f.employees[id]; !ok || e.TenantID != tenantID {
		return apperr.NotFound("employee", id)
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeRepo) CreatePosition(_ context.Context, p *models.Position) error {
	f.nextID++
	p.ID = f.nextID
	f.positions[p.ID] = *p
	return nil
}

func (f *fakeRepo) ListPositions(_ context.Context, tenantID int64) ([]models.Position, error) {
	var out []models.Position
	for _, p := range f.positions {
		if p.TenantID == tenantID {
			p.Assigned = len(f.assignments[p.ID])
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountAssignments(_ context.Context, _ int64, positionID int64) (int, error) {
	return len(f.assignments[positionID]), nil
}

func (f *fakeRepo) DeletePosition(_ context.Context, tenantID, id int64) error {
	if p, ok := f.positions[id]; !ok || p.TenantID != tenantID {
		return apperr.NotFound("position", id)
	}
	delete(f.positions, id)
	return nil
}

func (f *fakeRepo) AssignPosition(_ context.Context, _ int64, employeeID, positionID int64) error {
	for _, id := range f.assignments[positionID] {
		if id == employeeID {
			return nil
		}
	}
	f.assignments[positionID] = append(f.assignments[positionID], employeeID)
	return nil
}

func (f *fakeRepo) UnassignPosition(_ context.Context, _ int64, employeeID, positionID int64) error {
	ids := f.assignments[positionID]
	for i, id := range ids {
		if id == employeeID {
			f.assignments[positionID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("position assignment", positionID)
}

func TestService_CreateEmployee(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		tenantID  int64
		in        EmployeeInput
		wantRole  models.Role
		wantField string
		wantErr   bool
	}{
		{
			name:     "defaults to employee",
			tenantID: 1,
			in:       EmployeeInput{FullName: "Jan Kowalski", Login: "jan", Password: "tajne123"},
			wantRole: models.RoleEmployee,
		},
		{
			name:     "admin",
			tenantID: 1,
			in:       EmployeeInput{FullName: "Anna Nowak", Login: "anna", Password: "tajne123", Role: models.RoleAdmin},
			wantRole: models.RoleAdmin,
		},
		{
			name:      "no password",
			tenantID:  1,
			in:        EmployeeInput{FullName: "Jan Kowalski", Login: "jan"},
			wantField: "password",
			wantErr:   true,
		},
		{
			name:      "superadmin role is not assignable",
			tenantID:  1,
			in:        EmployeeInput{FullName: "Jan", Login: "jan", Password: "x", Role: models.RoleSuperadmin},
			wantField: "role",
			wantErr:   true,
		},
		{
			name:     "unknown tenant",
			tenantID: 9,
			in:       EmployeeInput{FullName: "Jan", Login: "jan", Password: "x"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo, bcrypt.MinCost)

			e, err := svc.CreateEmployee(ctx, tt.tenantID, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateEmployee() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ve apperr.ValidationError
				if tt.wantField != "" && (!errors.As(err, &ve) || ve.Field != tt.wantField) {
					t.Errorf("expected %s validation error, got %v", tt.wantField, err)
				}
				return
			}

			if e.Role != tt.wantRole {
				t.Errorf("role = %s, want %s", e.Role, tt.wantRole)
			}
			stored := repo.employees[e.ID]
			if stored.PasswordHash == tt.in.Password {
				t.Fatalf("password stored in plaintext")
			}
			ok, err := auth.CheckPassword(stored.PasswordHash, tt.in.Password)
			if err != nil || !ok {
				t.Errorf("stored hash does not match password: %v", err)
			}
		})
	}
}

func TestService_UpdateEmployeePassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, bcrypt.MinCost)

	e, err := svc.CreateEmployee(ctx, 1, EmployeeInput{FullName: "Jan", Login: "jan", Password: "stare"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}

	if _, err := svc.UpdateEmployee(ctx, 1, e.ID, EmployeeInput{FullName: "Jan K.", Login: "jan"}); err != nil {
		t.Fatalf("UpdateEmployee() error = %v", err)
	}
	if ok, _ := auth.CheckPassword(repo.employees[e.ID].PasswordHash, "stare"); !ok {
		t.Errorf("empty password must keep the stored one")
	}

	if _, err := svc.UpdateEmployee(ctx, 1, e.ID, EmployeeInput{FullName: "Jan K.", Login: "jan", Password: "nowe"}); err != nil {
		t.Fatalf("UpdateEmployee() error = %v", err)
	}
	if ok, _ := auth.CheckPassword(repo.employees[e.ID].PasswordHash, "nowe"); !ok {
		t.Errorf("password was not changed")
	}
	if repo.employees[e.ID].FullName != "Jan K." {
		t.Errorf("full name = %q", repo.employees[e.ID].FullName)
	}
}

func TestService_Positions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.employees[5] = models.Employee{ID: 5, TenantID: 1, FullName: "Jan", Login: "jan"}
	svc := NewService(repo, bcrypt.MinCost)

	for _, rate := range []string{"0", "-10", "", "abc"} {
		if _, err := svc.CreatePosition(ctx, 1, "Kucharz", rate); err == nil {
			t.Errorf("rate %q should be rejected", rate)
		}
	}

	p, err := svc.CreatePosition(ctx, 1, "Kucharz", "27,50")
	if err != nil {
		t.Fatalf("CreatePosition() error = %v", err)
	}
	if p.HourlyRate.String() != "27.5" {
		t.Errorf("hourly rate = %s", p.HourlyRate)
	}

	if err := svc.AssignPosition(ctx, 1, 5, 999); err == nil {
		t.Errorf("assigning an unknown position should fail")
	}
	if err := svc.AssignPosition(ctx, 1, 5, p.ID); err != nil {
		t.Fatalf("AssignPosition() error = %v", err)
	}

	var inUse apperr.InUseError
	if err := svc.DeletePosition(ctx, 1, p.ID); !errors.As(err, &inUse) {
		t.Fatalf("expected InUseError, got %v", err)
	}

	if err := svc.UnassignPosition(ctx, 1, 5, p.ID); err != nil {
		t.Fatalf("UnassignPosition() error = %v", err)
	}
	if err := svc.DeletePosition(ctx, 1, p.ID); err != nil {
		t.Fatalf("DeletePosition() error = %v", err)
	}
}

func TestHandler_EmployeeHidesPasswordHash(t *testing.T) {
	repo := newFakeRepo()
	h := NewHandler(NewService(repo, bcrypt.MinCost), logger.NewWithWriter("test", io.Discard))

	r := mux.NewRouter()
	tenantRouter := r.PathPrefix("/tenants/{tenantID}").Subrouter()
	tenantRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s := auth.Session{Login: "root", Role: models.RoleSuperadmin}
			next.ServeHTTP(w, req.WithContext(auth.WithSession(req.Context(), s)))
		})
	})
	h.RegisterRoutes(tenantRouter)

	body := `{"full_name":"Jan Kowalski","login":"jan","password":"tajne123"}`
	req := httptest.NewRequest(http.MethodPost, "/tenants/1/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Errorf("response leaks the password: %s", rec.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["role"] != "employee" {
		t.Errorf("role = %v", got["role"])
	}
}

func TestHandler_TenantRoutesNeedSuperadmin(t *testing.T) {
	repo := newFakeRepo()
	h := NewHandler(NewService(repo, bcrypt.MinCost), logger.NewWithWriter("test", io.Discard))

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := int64(1)
			s := auth.Session{Login: "anna", Role: models.RoleAdmin, TenantID: &id}
			next.ServeHTTP(w, req.WithContext(auth.WithSession(req.Context(), s)))
		})
	})
	h.RegisterTenantRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
