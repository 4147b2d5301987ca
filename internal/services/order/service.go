package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/services/catalog"
	"restaurant-pos/internal/services/ingredient"
)

const listLimit = 200

// Publisher announces order events to the kitchen and to status listeners.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, msg *models.OrderMessage) error
	PublishStatusChanged(ctx context.Context, msg *models.StatusUpdateMessage) error
}

// Catalog resolves orderable (product, size) pairs.
type Catalog interface {
	ProductOption(ctx context.Context, tenantID, productID, sizeID int64) (*catalog.ProductOption, error)
}

// Pricing loads ingredient surcharges for a product in a size.
type Pricing interface {
	Sheet(ctx context.Context, tenantID, productID, sizeID int64) (*ingredient.PriceSheet, error)
}

// LineRequest is a waiter's choice for one order line.
type LineRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	SizeID    int64   `json:"size_id" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"gte=0,lte=99"`
	Removed   []int64 `json:"removed"`
	Added     []int64 `json:"added"`
}

type Service struct {
	store     Store
	catalog   Catalog
	pricing   Pricing
	publisher Publisher
	drafts    *DraftStore
	logger    *logger.Logger
	loc       *time.Location
	now       func() time.Time
}

func NewService(store Store, cat Catalog, pricing Pricing, publisher Publisher, drafts *DraftStore, log *logger.Logger, loc *time.Location) *Service {
	return &Service{
		store:     store,
		catalog:   cat,
		pricing:   pricing,
		publisher: publisher,
		drafts:    drafts,
		logger:    log,
		loc:       loc,
		now:       time.Now,
	}
}

// PriceSheet returns the ingredients a waiter can remove or add for a product
// in a size, with their surcharges.
func (s *Service) PriceSheet(ctx context.Context, tenantID, productID, sizeID int64) (*ingredient.PriceSheet, error) {
	if _, err := s.catalog.ProductOption(ctx, tenantID, productID, sizeID); err != nil {
		return nil, err
	}
	return s.pricing.Sheet(ctx, tenantID, productID, sizeID)
}

// BuildLine prices one requested line against the current catalog.
func (s *Service) BuildLine(ctx context.Context, tenantID int64, req LineRequest) (models.OrderLine, error) {
	option, err := s.catalog.ProductOption(ctx, tenantID, req.ProductID, req.SizeID)
	if err != nil {
		return models.OrderLine{}, err
	}
	sheet, err := s.pricing.Sheet(ctx, tenantID, req.ProductID, req.SizeID)
	if err != nil {
		return models.OrderLine{}, err
	}
	sel, err := SelectionOf(req.Removed, req.Added)
	if err != nil {
		return models.OrderLine{}, err
	}
	return BuildLine(option, sheet, sel, req.Quantity)
}

// CreateOrder builds and submits a complete order in one call.
func (s *Service) CreateOrder(ctx context.Context, session auth.Session, tenantID int64, details models.OrderDetails, reqs []LineRequest) (*models.Order, error) {
	draft := NewDraft()
	if err := draft.SetDetails(details); err != nil {
		return nil, err
	}
	for i, req := range reqs {
		line, err := s.BuildLine(ctx, tenantID, req)
		if err != nil {
			return nil, lineError(i, err)
		}
		if err := draft.AddLine(line); err != nil {
			return nil, err
		}
	}
	return draft.Submit(ctx, s.submitter(session, tenantID))
}

func lineError(index int, err error) error {
	var ve apperr.ValidationError
	if errors.As(err, &ve) {
		return apperr.Invalid(fmt.Sprintf("lines[%d].%s", index, ve.Field), ve.Message)
	}
	return err
}

func (s *Service) Draft(session auth.Session, tenantID int64) DraftView {
	return s.drafts.Get(tenantID, session.Login).View()
}

func (s *Service) AddToDraft(ctx context.Context, session auth.Session, tenantID int64, req LineRequest) (DraftView, error) {
	line, err := s.BuildLine(ctx, tenantID, req)
	if err != nil {
		return DraftView{}, err
	}
	draft := s.drafts.Get(tenantID, session.Login)
	if err := draft.AddLine(line); err != nil {
		return DraftView{}, err
	}
	return draft.View(), nil
}

func (s *Service) RemoveFromDraft(session auth.Session, tenantID int64, index int) (DraftView, error) {
	draft := s.drafts.Get(tenantID, session.Login)
	if err := draft.RemoveLine(index); err != nil {
		return DraftView{}, err
	}
	return draft.View(), nil
}

func (s *Service) SetDraftDetails(session auth.Session, tenantID int64, details models.OrderDetails) (DraftView, error) {
	draft := s.drafts.Get(tenantID, session.Login)
	if err := draft.SetDetails(details); err != nil {
		return DraftView{}, err
	}
	return draft.View(), nil
}

// DiscardDraft drops the waiter's draft. A draft being submitted is kept.
func (s *Service) DiscardDraft(session auth.Session, tenantID int64) error {
	if s.drafts.Get(tenantID, session.Login).State() == DraftSubmitting {
		return apperr.Invalid("", "order is being submitted")
	}
	s.drafts.Discard(tenantID, session.Login)
	return nil
}

func (s *Service) SubmitDraft(ctx context.Context, session auth.Session, tenantID int64) (*models.Order, error) {
	return s.drafts.Get(tenantID, session.Login).Submit(ctx, s.submitter(session, tenantID))
}

func (s *Service) submitter(session auth.Session, tenantID int64) SubmitFunc {
	return func(ctx context.Context, details models.OrderDetails, lines []models.OrderLine) (*models.Order, error) {
		if err := ValidateDetails(details); err != nil {
			return nil, err
		}
		if err := validateLines(lines); err != nil {
			return nil, err
		}

		order, err := s.store.Create(ctx, models.NewOrder{
			TenantID:   tenantID,
			EmployeeID: session.EmployeeID,
			CreatedBy:  session.Login,
			Details:    details,
			Lines:      lines,
			Total:      linesTotal(lines),
		}, s.businessDay())
		if err != nil {
			return nil, err
		}

		if err := s.publisher.PublishOrderCreated(ctx, models.NewOrderMessage(order)); err != nil {
			s.logger.Error("order_publish_failed", "Failed to notify kitchen", httpx.RequestID(ctx), err, map[string]interface{}{
				"tenant_id":    tenantID,
				"order_number": order.Number,
			})
		}
		return order, nil
	}
}

// businessDay is today's date in the restaurant's timezone, expressed as a
// UTC midnight so the database DATE does not shift.
func (s *Service) businessDay() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// List returns order headers, newest first. With activeOnly only orders still
// in the kitchen or waiting to be served are returned.
func (s *Service) List(ctx context.Context, tenantID int64, activeOnly bool) ([]models.Order, error) {
	var statuses []models.OrderStatus
	if activeOnly {
		statuses = models.ActiveStatuses
	}
	orders, err := s.store.List(ctx, tenantID, statuses, listLimit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*models.Order, error) {
	return s.store.Get(ctx, tenantID, id)
}

// ChangeStatus moves an order one step through its lifecycle and announces
// the change.
func (s *Service) ChangeStatus(ctx context.Context, session auth.Session, tenantID, id int64, next models.OrderStatus) (*models.Order, error) {
	order, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next, order.Kind) {
		return nil, apperr.Invalid("status", fmt.Sprintf("cannot move a %s order from %s to %s", order.Kind, order.Status, next))
	}

	prev := order.Status
	if err := s.store.UpdateStatus(ctx, tenantID, id, prev, next, session.Login); err != nil {
		return nil, err
	}
	order.Status = next

	if err := s.publisher.PublishStatusChanged(ctx, models.NewStatusUpdateMessage(order, prev, session.Login)); err != nil {
		s.logger.Error("status_publish_failed", "Failed to publish status change", httpx.RequestID(ctx), err, map[string]interface{}{
			"tenant_id":    tenantID,
			"order_number": order.Number,
		})
	}
	return order, nil
}

func (s *Service) UpdatePayment(ctx context.Context, tenantID, id int64, method models.PaymentMethod, status models.PaymentStatus) (*models.Order, error) {
	if !method.Valid() {
		return nil, apperr.Invalid("payment_method", fmt.Sprintf("unknown payment method %q", method))
	}
	if !status.Valid() {
		return nil, apperr.Invalid("payment_status", fmt.Sprintf("unknown payment status %q", status))
	}
	if err := s.store.UpdatePayment(ctx, tenantID, id, method, status); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, tenantID, id)
}
