package tracking

import (
	"context"
	"time"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/logger"
)

// Broker reports whether the message broker connection is up.
type Broker interface {
	IsClosed() bool
}

type Service struct {
	repo   Repository
	broker Broker
	logger *logger.Logger
}

// NewService builds the tracking service. broker may be nil when the API runs
// without messaging.
func NewService(repo Repository, broker Broker, log *logger.Logger) *Service {
	return &Service{repo: repo, broker: broker, logger: log}
}

// History lists the status changes of an order, oldest first.
func (s *Service) History(ctx context.Context, tenantID, orderID int64) ([]StatusChange, error) {
	history, err := s.repo.ListHistory(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return history, nil
	}

	exists, err := s.repo.OrderExists(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("order", orderID)
	}
	return []StatusChange{}, nil
}

// HealthReport is the state of the service's dependencies.
type HealthReport struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Health pings the database and inspects the broker connection. Only the
// database is required; the API keeps taking orders without the broker.
func (s *Service) Health(ctx context.Context) (HealthReport, bool) {
	report := HealthReport{Status: "ok", Checks: map[string]string{}, Timestamp: time.Now().UTC()}
	healthy := true

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.repo.Ping(pingCtx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		report.Checks["database"] = "unreachable"
		report.Status = "unhealthy"
		healthy = false
	} else {
		report.Checks["database"] = "ok"
	}

	switch {
	case s.broker == nil:
		report.Checks["messaging"] = "disabled"
	case s.broker.IsClosed():
		report.Checks["messaging"] = "disconnected"
	default:
		report.Checks["messaging"] = "ok"
	}
	return report, healthy
}
