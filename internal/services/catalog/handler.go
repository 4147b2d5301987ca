package catalog

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Handler serves the menu and the catalog administration routes.
type Handler struct {
	service *Service
	reader  *Reader
	logger  *logger.Logger
}

func NewHandler(service *Service, reader *Reader, log *logger.Logger) *Handler {
	return &Handler{service: service, reader: reader, logger: log}
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type sizeRequest struct {
	CategoryID int64            `json:"category_id"`
	Name       string           `json:"name" validate:"required,max=50"`
	Prices     map[int64]string `json:"prices"`
}

type productRequest struct {
	CategoryID    int64            `json:"category_id"`
	Name          string           `json:"name" validate:"required,max=100"`
	Prices        map[int64]string `json:"prices" validate:"required"`
	IngredientIDs []int64          `json:"ingredient_ids"`
}

func (p productRequest) input() ProductInput {
	return ProductInput{
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Prices:        p.Prices,
		IngredientIDs: p.IngredientIDs,
	}
}

// RegisterRoutes mounts the routes on a tenant-scoped router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	admin := func(fn http.HandlerFunc) http.HandlerFunc {
		return auth.RequireRole(h.logger, fn, models.RoleSuperadmin, models.RoleAdmin)
	}

	r.HandleFunc("/menu", h.menu).Methods(http.MethodGet)

	r.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories", admin(h.createCategory)).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", admin(h.renameCategory)).Methods(http.MethodPut)
	r.HandleFunc("/categories/{id}", admin(h.deleteCategory)).Methods(http.MethodDelete)

	r.HandleFunc("/sizes", h.listSizes).Methods(http.MethodGet)
	r.HandleFunc("/sizes", admin(h.createSize)).Methods(http.MethodPost)
	r.HandleFunc("/sizes/{id}", admin(h.updateSize)).Methods(http.MethodPut)
	r.HandleFunc("/sizes/{id}", admin(h.deleteSize)).Methods(http.MethodDelete)

	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", admin(h.createProduct)).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", admin(h.updateProduct)).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", admin(h.deleteProduct)).Methods(http.MethodDelete)
}

func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	categoryID, err := optionalID(r, "category_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	menu, err := h.reader.Menu(r.Context(), tenantID, categoryID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "menu_load_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, menu)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	categories, err := h.service.ListCategories(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "categories_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req nameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	c, err := h.service.CreateCategory(r.Context(), tenantID, req.Name)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "category_create_failed", err)
		return
	}
	h.logger.Info("category_created", "Category created", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id":   tenantID,
		"category_id": c.ID,
	})
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.RenameCategory(r.Context(), tenantID, id, req.Name); err != nil {
		httpx.WriteError(w, r, h.logger, "category_update_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "category_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSizes(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	categoryID, err := optionalID(r, "category_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	sizes, err := h.service.ListSizes(r.Context(), tenantID, categoryID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "sizes_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sizes)
}

func (h *Handler) createSize(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req sizeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	size, err := h.service.CreateSize(r.Context(), tenantID, req.CategoryID, req.Name, req.Prices)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "size_create_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, size)
}

func (h *Handler) updateSize(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req sizeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	size, err := h.service.UpdateSize(r.Context(), tenantID, id, req.Name, req.Prices)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "size_update_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, size)
}

func (h *Handler) deleteSize(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeleteSize(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "size_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	products, err := h.service.ListProducts(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "products_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	p, err := h.service.GetProduct(r.Context(), tenantID, id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "product_get_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	p, err := h.service.CreateProduct(r.Context(), tenantID, req.input())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "product_create_failed", err)
		return
	}
	h.logger.Info("product_created", "Product created", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id":  tenantID,
		"product_id": p.ID,
		"sizes":      len(p.Prices),
	})
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), tenantID, id, req.input())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "product_update_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), tenantID, id); err != nil {
		httpx.WriteError(w, r, h.logger, "product_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperr.Invalid(name, "must be a positive integer")
	}
	return &id, nil
}
