package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind represents how the order leaves the kitchen
type OrderKind string

const (
	DineIn   OrderKind = "dine_in"
	Takeout  OrderKind = "takeout"
	Delivery OrderKind = "delivery"
)

func (k OrderKind) Valid() bool {
	switch k {
	case DineIn, Takeout, Delivery:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

type PaymentStatus string

const (
	Paid   PaymentStatus = "paid"
	Unpaid PaymentStatus = "unpaid"
)

func (s PaymentStatus) Valid() bool {
	return s == Paid || s == Unpaid
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusDelivered OrderStatus = "delivered"
)

// ActiveStatuses are shown on the waiter screen.
var ActiveStatuses = []OrderStatus{StatusNew, StatusPreparing, StatusReady}

func (s OrderStatus) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether an order of the given kind may move from s to next.
// Delivery orders finish as delivered, all others as served.
func (s OrderStatus) CanTransitionTo(next OrderStatus, kind OrderKind) bool {
	switch s {
	case StatusNew:
		return next == StatusPreparing
	case StatusPreparing:
		return next == StatusReady
	case StatusReady:
		if kind == Delivery {
			return next == StatusDelivered
		}
		return next == StatusServed
	}
	return false
}

type ModificationAction string

const (
	Added   ModificationAction = "added"
	Removed ModificationAction = "removed"
)

// Modification is an ingredient added to or removed from a line. Removals
// always carry a zero price.
type Modification struct {
	ID             int64              `json:"id,omitempty"`
	IngredientID   int64              `json:"ingredient_id"`
	IngredientName string             `json:"ingredient_name"`
	Action         ModificationAction `json:"action"`
	Price          decimal.Decimal    `json:"price"`
}

// OrderLine is one product in one size with its ingredient changes.
type OrderLine struct {
	ID          int64           `json:"id,omitempty"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeID      int64           `json:"size_id"`
	SizeName    string          `json:"size_name"`
	BasePrice   decimal.Decimal `json:"base_price"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Removed     []Modification  `json:"removed"`
	Added       []Modification  `json:"added"`
}

func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Modifications returns removals followed by additions.
func (l OrderLine) Modifications() []Modification {
	mods := make([]Modification, 0, len(l.Removed)+len(l.Added))
	mods = append(mods, l.Removed...)
	return append(mods, l.Added...)
}

// OrderDetails is the header information a waiter fills in.
type OrderDetails struct {
	Kind          OrderKind     `json:"kind"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TableNumber   string        `json:"table_number,omitempty"`
	Address       string        `json:"address,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	ScheduledAt   *time.Time    `json:"scheduled_at,omitempty"`
}

func DefaultDetails() OrderDetails {
	return OrderDetails{
		Kind:          DineIn,
		PaymentMethod: PaymentCash,
		PaymentStatus: Unpaid,
	}
}

// Order represents a persisted customer order
type Order struct {
	ID         int64  `json:"id"`
	TenantID   int64  `json:"tenant_id"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	CreatedBy  string `json:"created_by"`
	Number     string `json:"number"`
	OrderDetails
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Lines       []OrderLine     `json:"lines"`
}

// NewOrder is everything needed to persist an order; the number is assigned
// by the store.
type NewOrder struct {
	TenantID   int64
	EmployeeID *int64
	CreatedBy  string
	Details    OrderDetails
	Lines      []OrderLine
	Total      decimal.Decimal
}

// FormatOrderNumber renders the human readable daily number, YYMMDD-NNN.
func FormatOrderNumber(day time.Time, sequence int) string {
	return fmt.Sprintf("%s-%03d", day.Format("060102"), sequence)
}
