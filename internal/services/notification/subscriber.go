package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/messaging"
	"restaurant-pos/internal/models"
)

// Source delivers raw status change messages.
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber prints order status changes for the front of house.
type Subscriber struct {
	source Source
	out    io.Writer
	logger *logger.Logger
}

func NewSubscriber(source Source, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{source: source, out: out, logger: log}
}

// Run consumes status changes until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.source.StartConsuming(ctx, s.HandleMessage)
	if closeErr := s.source.Close(); closeErr != nil {
		s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
		return nil
	}
	return err
}

func (s *Subscriber) HandleMessage(_ context.Context, body []byte) error {
	var update models.StatusUpdateMessage
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("%w: %v", messaging.ErrMalformed, err)
	}

	if _, err := fmt.Fprintln(s.out, FormatNotification(&update)); err != nil {
		return fmt.Errorf("failed to print notification: %w", err)
	}
	s.logger.Info("notification_displayed", "Status change displayed", "", map[string]interface{}{
		"tenant_id":    update.TenantID,
		"order_number": update.OrderNumber,
		"old_status":   update.OldStatus,
		"new_status":   update.NewStatus,
		"changed_by":   update.ChangedBy,
	})
	return nil
}

// FormatNotification renders a status change as one line.
func FormatNotification(u *models.StatusUpdateMessage) string {
	ts := u.Timestamp.Format("15:04:05")
	switch u.NewStatus {
	case models.StatusPreparing:
		return fmt.Sprintf("[%s] Order %s is being prepared.", ts, u.OrderNumber)
	case models.StatusReady:
		return fmt.Sprintf("[%s] Order %s is ready to be served!", ts, u.OrderNumber)
	case models.StatusServed, models.StatusDelivered:
		return fmt.Sprintf("[%s] Order %s %s by %s.", ts, u.OrderNumber, u.NewStatus, u.ChangedBy)
	default:
		return fmt.Sprintf("[%s] Order %s changed from %s to %s by %s.", ts, u.OrderNumber, u.OldStatus, u.NewStatus, u.ChangedBy)
	}
}
