package tracking

import (
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterPublicRoutes mounts the health check on the root router.
func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
}

// RegisterRoutes mounts the routes on a tenant-scoped router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orders/{orderID}/history", h.history).Methods(http.MethodGet)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	orderID, err := httpx.PathID(r, "orderID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	history, err := h.service.History(r.Context(), tenantID, orderID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "order_history_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, history)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	report, healthy := h.service.Health(r.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, report)
}
