package ingredient

import (
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Handler handles HTTP requests for ingredient types, ingredients and
// per-size ingredient prices
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type ingredientRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	TypeID int64  `json:"type_id" validate:"required,gt=0"`
}

type typePricesRequest struct {
	Prices map[int64]string `json:"prices" validate:"required"`
}

// RegisterRoutes mounts the routes on a tenant-scoped router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	admin := func(fn http.HandlerFunc) http.HandlerFunc {
		return auth.RequireRole(h.logger, fn, models.RoleSuperadmin, models.RoleAdmin)
	}

	r.HandleFunc("/ingredient-types", h.listTypes).Methods(http.MethodGet)
	r.HandleFunc("/ingredient-types", admin(h.createType)).Methods(http.MethodPost)
	r.HandleFunc("/ingredient-types/{id}", admin(h.renameType)).Methods(http.MethodPut)
	r.HandleFunc("/ingredient-types/{id}", admin(h.deleteType)).Methods(http.MethodDelete)

	r.HandleFunc("/ingredients", h.listIngredients).Methods(http.MethodGet)
	r.HandleFunc("/ingredients", admin(h.createIngredient)).Methods(http.MethodPost)
	r.HandleFunc("/ingredients/{id}", admin(h.updateIngredient)).Methods(http.MethodPut)
	r.HandleFunc("/ingredients/{id}", admin(h.deleteIngredient)).Methods(http.MethodDelete)

	r.HandleFunc("/sizes/{id}/ingredient-prices", h.listTypePrices).Methods(http.MethodGet)
	r.HandleFunc("/sizes/{id}/ingredient-prices", admin(h.setTypePrices)).Methods(http.MethodPut)
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	types, err := h.service.ListTypes(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_types_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) createType(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req nameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	t, err := h.service.CreateType(r.Context(), tenantID, req.Name)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_type_create_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) renameType(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req nameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.RenameType(r.Context(), tenantID, id, req.Name); err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_type_update_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteType(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeleteType(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_type_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	ingredients, err := h.service.ListIngredients(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredients_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ingredients)
}

func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req ingredientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	ing, err := h.service.CreateIngredient(r.Context(), tenantID, req.TypeID, req.Name)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_create_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ing)
}

func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req ingredientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	ing, err := h.service.UpdateIngredient(r.Context(), tenantID, id, req.TypeID, req.Name)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_update_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ing)
}

func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeleteIngredient(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTypePrices(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	sizeID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	prices, err := h.service.ListTypePrices(r.Context(), tenantID, sizeID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_prices_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prices)
}

func (h *Handler) setTypePrices(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	sizeID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req typePricesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	prices, err := h.service.SetTypePrices(r.Context(), tenantID, sizeID, req.Prices)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "ingredient_prices_update_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prices)
}
