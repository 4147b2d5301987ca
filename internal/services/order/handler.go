package order

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Handler serves the waiter screen: drafts, order submission and tracking.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

type detailsRequest struct {
	Kind          models.OrderKind     `json:"kind" validate:"required,oneof=dine_in takeout delivery"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card"`
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,oneof=paid unpaid"`
	TableNumber   string               `json:"table_number" validate:"max=20"`
	Address       string               `json:"address" validate:"max=200"`
	Phone         string               `json:"phone" validate:"max=50"`
	Notes         string               `json:"notes"`
	ScheduledAt   *time.Time           `json:"scheduled_at"`
}

func (d detailsRequest) details() models.OrderDetails {
	return models.OrderDetails{
		Kind:          d.Kind,
		PaymentMethod: d.PaymentMethod,
		PaymentStatus: d.PaymentStatus,
		TableNumber:   d.TableNumber,
		Address:       d.Address,
		Phone:         d.Phone,
		Notes:         d.Notes,
		ScheduledAt:   d.ScheduledAt,
	}
}

type createOrderRequest struct {
	detailsRequest
	Lines []LineRequest `json:"lines" validate:"dive"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type paymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card"`
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,oneof=paid unpaid"`
}

// RegisterRoutes mounts the routes on a tenant-scoped router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products/{productID}/sizes/{sizeID}/ingredients", h.priceSheet).Methods(http.MethodGet)

	r.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderID}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderID}/status", h.changeStatus).Methods(http.MethodPatch)
	r.HandleFunc("/orders/{orderID}/payment", h.updatePayment).Methods(http.MethodPatch)

	r.HandleFunc("/draft", h.getDraft).Methods(http.MethodGet)
	r.HandleFunc("/draft", h.discardDraft).Methods(http.MethodDelete)
	r.HandleFunc("/draft/lines", h.addDraftLine).Methods(http.MethodPost)
	r.HandleFunc("/draft/lines/{index}", h.removeDraftLine).Methods(http.MethodDelete)
	r.HandleFunc("/draft/details", h.setDraftDetails).Methods(http.MethodPut)
	r.HandleFunc("/draft/submit", h.submitDraft).Methods(http.MethodPost)
}

func (h *Handler) priceSheet(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	productID, err := httpx.PathID(r, "productID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	sizeID, err := httpx.PathID(r, "sizeID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	sheet, err := h.service.PriceSheet(r.Context(), tenantID, productID, sizeID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "price_sheet_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sheet)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), session, tenantID, req.details(), req.Lines)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "order_create_failed", err)
		return
	}
	h.logOrderCreated(r, order)
	httpx.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) logOrderCreated(r *http.Request, order *models.Order) {
	h.logger.Info("order_created", "Order created", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id":    order.TenantID,
		"order_number": order.Number,
		"kind":         order.Kind,
		"lines":        len(order.Lines),
		"total_amount": order.TotalAmount.StringFixed(2),
		"created_by":   order.CreatedBy,
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(w, r, h.logger, "validation_failed", apperr.Invalid("active", "must be true or false"))
			return
		}
		activeOnly = v
	}

	orders, err := h.service.List(r.Context(), tenantID, activeOnly)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "orders_list_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "orderID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	order, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "order_get_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	id, err := httpx.PathID(r, "orderID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	order, err := h.service.ChangeStatus(r.Context(), session, tenantID, id, req.Status)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "order_status_failed", err)
		return
	}
	h.logger.Info("order_status_changed", "Order status changed", httpx.RequestID(r.Context()), map[string]interface{}{
		"tenant_id":    tenantID,
		"order_number": order.Number,
		"status":       order.Status,
		"changed_by":   session.Login,
	})
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	id, err := httpx.PathID(r, "orderID")
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}
	var req paymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	order, err := h.service.UpdatePayment(r.Context(), tenantID, id, req.PaymentMethod, req.PaymentStatus)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "order_payment_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.service.Draft(session, tenantID))
}

func (h *Handler) discardDraft(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	if err := h.service.DiscardDraft(session, tenantID); err != nil {
		httpx.WriteError(w, r, h.logger, "draft_discard_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addDraftLine(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	var req LineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	view, err := h.service.AddToDraft(r.Context(), session, tenantID, req)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "draft_line_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) removeDraftLine(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", apperr.Invalid("index", "must be an integer"))
		return
	}

	view, err := h.service.RemoveFromDraft(session, tenantID, index)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "draft_line_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) setDraftDetails(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}
	var req detailsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, "validation_failed", err)
		return
	}

	view, err := h.service.SetDraftDetails(session, tenantID, req.details())
	if err != nil {
		httpx.WriteError(w, r, h.logger, "draft_details_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) submitDraft(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := httpx.PathID(r, "tenantID")
	session, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.logger, "unauthorized", apperr.ErrUnauthorized)
		return
	}

	order, err := h.service.SubmitDraft(r.Context(), session, tenantID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, "order_create_failed", err)
		return
	}
	h.logOrderCreated(r, order)
	httpx.WriteJSON(w, http.StatusCreated, order)
}
