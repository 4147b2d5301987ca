package tenant

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Handler serves tenant, employee and position administration.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

type tenantRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Street string `json:"street" validate:"max=200"`
	City   string `json:"city" validate:"max=100"`
	Phone  string `json:"phone" validate:"max=50"`
	Email  string `json:"email" validate:"omitempty,email,max=200"`
}

func (t tenantRequest) input() TenantInput {
	return TenantInput{Name: t.Name, Street: t.Street, City: t.City, Phone: t.Phone, Email: t.Email}
}

type employeeRequest struct {
	FullName string      `json:"full_name" validate:"required,max=200"`
	Phone    string      `json:"phone" validate:"max=50"`
	Email    string      `json:"email" validate:"omitempty,email,max=200"`
	Login    string      `json:"login" validate:"required,max=100"`
	Password string      `json:"password" validate:"max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin employee"`
}

func (e employeeRequest) input() EmployeeInput {
	return EmployeeInput{
		FullName: e.FullName,
		Phone:    e.Phone,
		Email:    e.Email,
		Login:    e.Login,
		Password: e.Password,
		Role:     e.Role,
	}
}

type positionRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	HourlyRate string `json:"hourly_rate" validate:"required"`
}

// RegisterTenantRoutes mounts the superadmin tenant registry on the
// authenticated root router.
func (h *Handler) RegisterTenantRoutes(r *mux.Router) {
	r.HandleFunc("/tenants", h.superadmin(h.listTenants)).Methods(http.MethodGet)
	r.HandleFunc("/tenants", h.superadmin(h.createTenant)).Methods(http.MethodPost)
}

// RegisterRoutes mounts the routes on a tenant-scoped router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	admin := func(fn http.HandlerFunc) http.HandlerFunc {
		return auth.RequireRole(h.logger, fn, models.RoleSuperadmin, models.RoleAdmin)
	}

	r.HandleFunc("", h.getTenant).Methods(http.MethodGet)
	r.HandleFunc("", h.superadmin(h.updateTenant)).Methods(http.MethodPut)
	r.HandleFunc("", h.superadmin(h.deleteTenant)).Methods(http.MethodDelete)

	r.HandleFunc("/employees", admin(h.listEmployees)).Methods(http.MethodGet)
	r.HandleFunc("/employees", admin(h.createEmployee)).Methods(http.MethodPost)
	r.HandleFunc("/employees/{id}", admin(h.updateEmployee)).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}", admin(h.deleteEmployee)).Methods(http.MethodDelete)
	r.HandleFunc("/employees/{id}/positions/{positionID}", admin(h.assignPosition)).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}/positions/{positionID}", admin(h.unassignPosition)).Methods(http.MethodDelete)

	r.HandleFunc("/positions", admin(h.listPositions)).Methods(http.MethodGet)
	r.HandleFunc("/positions", admin(h.createPosition)).Methods(http.MethodPost)
	r.HandleFunc("/positions/{id}", admin(h.deletePosition)).Methods(http.MethodDelete)
}

func (h *Handler) superadmin(fn http.HandlerFunc) http.HandlerFunc {
	return auth.RequireRole(h.logger, fn, models.RoleSuperadmin)
}

func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.service.ListTenants(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "tenants_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tenants)
}

func (h *Handler) createTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	t, err := h.service.CreateTenant(r.Context(), req.input())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "tenant_create_failed", err)
		return
	}
	h.logger.Info("tenant_created", "Tenant created", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id": t.ID,
		"name":      t.Name,
	})
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	t, err := h.service.GetTenant(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "tenant_get_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) updateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req tenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	t, err := h.service.UpdateTenant(r.Context(), tenantID, req.input())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "tenant_update_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) deleteTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	if err := h.service.DeleteTenant(r.Context(), tenantID); err != nil {
		httpx.WriteError(w, r, h.logger, "tenant_delete_failed", err)
		return
	}
	h.logger.Info("tenant_deleted", "Tenant deleted", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id": tenantID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	employees, err := h.service.ListEmployees(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "employees_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req employeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	e, err := h.service.CreateEmployee(r.Context(), tenantID, req.input())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "employee_create_failed", err)
		return
	}
	h.logger.Info("employee_created", "Employee created", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id":   tenantID,
		"employee_id": e.ID,
		"role":        e.Role,
	})
	httpx.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req employeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	e, err := h.service.UpdateEmployee(r.Context(), tenantID, id, req.input())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "employee_update_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "employee_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assignPosition(w http.ResponseWriter, r *http.Request) {
	h.changeAssignment(w, r, h.service.AssignPosition, "position_assign_failed")
}

func (h *Handler) unassignPosition(w http.ResponseWriter, r *http.Request) {
	h.changeAssignment(w, r, h.service.UnassignPosition, "position_unassign_failed")
}

func (h *Handler) changeAssignment(w http.ResponseWriter, r *http.Request, change func(context.Context, int64, int64, int64) error, action string) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	employeeID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	positionID, err := httpx.PathID(r, "positionID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := change(r.Context(), tenantID, employeeID, positionID); err != nil {
		httpx.WriteError(w, r, h.logger, action, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPositions(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	positions, err := h.service.ListPositions(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "positions_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, positions)
}

func (h *Handler) createPosition(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req positionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	p, err := h.service.CreatePosition(r.Context(), tenantID, req.Name, req.HourlyRate)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "position_create_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) deletePosition(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeletePosition(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "position_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
