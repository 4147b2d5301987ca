package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/messaging"
	"restaurant-pos/internal/models"
)

// Source delivers raw kitchen messages.
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Display prints a ticket for every new order so the kitchen knows what to
// prepare, including each added (+) and removed (-) ingredient.
type Display struct {
	source Source
	out    io.Writer
	logger *logger.Logger
}

func NewDisplay(source Source, out io.Writer, log *logger.Logger) *Display {
	return &Display{source: source, out: out, logger: log}
}

// Run consumes tickets until ctx is cancelled.
func (d *Display) Run(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	d.logger.Info("service_started", "Kitchen display started", requestID, nil)

	err := d.source.StartConsuming(ctx, d.HandleMessage)
	if closeErr := d.source.Close(); closeErr != nil {
		d.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}
	if errors.Is(err, context.Canceled) {
		d.logger.Info("graceful_shutdown", "Kitchen display stopped", requestID, nil)
		return nil
	}
	return err
}

// HandleMessage renders one order ticket. Messages that do not decode are
// reported as malformed so they are dropped rather than redelivered.
func (d *Display) HandleMessage(_ context.Context, body []byte) error {
	var msg models.OrderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", messaging.ErrMalformed, err)
	}
	if msg.OrderNumber == "" || len(msg.Lines) == 0 {
		return fmt.Errorf("%w: ticket without number or lines", messaging.ErrMalformed)
	}

	if _, err := io.WriteString(d.out, RenderTicket(&msg)); err != nil {
		return fmt.Errorf("failed to print ticket: %w", err)
	}
	d.logger.Info("ticket_displayed", fmt.Sprintf("Ticket %s displayed", msg.OrderNumber), "", map[string]interface{}{
		"tenant_id":    msg.TenantID,
		"order_number": msg.OrderNumber,
		"kind":         msg.Kind,
		"lines":        len(msg.Lines),
	})
	return nil
}

// RenderTicket formats an order for the kitchen screen.
func RenderTicket(msg *models.OrderMessage) string {
	var b strings.Builder

	header := fmt.Sprintf("#%s  %s", msg.OrderNumber, strings.ToUpper(strings.ReplaceAll(string(msg.Kind), "_", " ")))
	switch msg.Kind {
	case models.DineIn:
		header += "  table " + msg.TableNumber
	case models.Delivery:
		header += "  " + msg.Address
	}
	if msg.ScheduledAt != nil {
		header += "  for " + msg.ScheduledAt.Format("15:04")
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")

	for _, l := range msg.Lines {
		fmt.Fprintf(&b, "%dx %s (%s)\n", l.Quantity, l.Product, l.Size)
		for _, name := range l.Added {
			fmt.Fprintf(&b, "   + %s\n", name)
		}
		for _, name := range l.Removed {
			fmt.Fprintf(&b, "   - %s\n", name)
		}
	}
	if msg.Notes != "" {
		fmt.Fprintf(&b, "note: %s\n", msg.Notes)
	}
	b.WriteString("\n")
	return b.String()
}
