package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderMessage is sent to the kitchen when an order is created
type OrderMessage struct {
	OrderID     int64           `json:"order_id"`
	TenantID    int64           `json:"tenant_id"`
	OrderNumber string          `json:"order_number"`
	Kind        OrderKind       `json:"kind"`
	TableNumber string          `json:"table_number,omitempty"`
	Address     string          `json:"address,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Lines       []TicketLine    `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TicketLine is the kitchen view of an order line
type TicketLine struct {
	Product  string   `json:"product"`
	Size     string   `json:"size"`
	Quantity int      `json:"quantity"`
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
}

// StatusUpdateMessage represents a status update notification
type StatusUpdateMessage struct {
	OrderID     int64       `json:"order_id"`
	TenantID    int64       `json:"tenant_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
	ChangedBy   string      `json:"changed_by"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewOrderMessage builds the kitchen message for a persisted order
func NewOrderMessage(order *Order) *OrderMessage {
	msg := &OrderMessage{
		OrderID:     order.ID,
		TenantID:    order.TenantID,
		OrderNumber: order.Number,
		Kind:        order.Kind,
		TableNumber: order.TableNumber,
		Address:     order.Address,
		Notes:       order.Notes,
		ScheduledAt: order.ScheduledAt,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
	for _, line := range order.Lines {
		ticket := TicketLine{
			Product:  line.ProductName,
			Size:     line.SizeName,
			Quantity: line.Quantity,
		}
		for _, m := range line.Added {
			ticket.Added = append(ticket.Added, m.IngredientName)
		}
		for _, m := range line.Removed {
			ticket.Removed = append(ticket.Removed, m.IngredientName)
		}
		msg.Lines = append(msg.Lines, ticket)
	}
	return msg
}

func NewStatusUpdateMessage(order *Order, oldStatus OrderStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderID:     order.ID,
		TenantID:    order.TenantID,
		OrderNumber: order.Number,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
		ChangedBy:   changedBy,
		Timestamp:   time.Now().UTC(),
	}
}

// GenerateRoutingKey generates a routing key for kitchen messages
func GenerateRoutingKey(kind OrderKind, tenantID int64) string {
	return fmt.Sprintf("kitchen.%s.%d", kind, tenantID)
}
