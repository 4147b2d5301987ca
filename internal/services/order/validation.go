package order

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

const (
	maxLines    = 50
	maxQuantity = 99
	maxNotes    = 500
)

// ValidateDetails checks the header a waiter filled in. Dine-in orders need a
// table, delivery orders an address, takeout and delivery orders a phone.
func ValidateDetails(d models.OrderDetails) error {
	if !d.Kind.Valid() {
		return apperr.Invalid("kind", "must be one of: dine_in takeout delivery")
	}
	if !d.PaymentMethod.Valid() {
		return apperr.Invalid("payment_method", "must be one of: cash card")
	}
	if !d.PaymentStatus.Valid() {
		return apperr.Invalid("payment_status", "must be one of: paid unpaid")
	}

	switch d.Kind {
	case models.DineIn:
		if strings.TrimSpace(d.TableNumber) == "" {
			return apperr.Invalid("table_number", "table number is required for dine-in orders")
		}
	case models.Delivery:
		if strings.TrimSpace(d.Address) == "" {
			return apperr.Invalid("address", "delivery address is required for delivery orders")
		}
	}
	if d.Kind != models.DineIn && strings.TrimSpace(d.Phone) == "" {
		return apperr.Invalid("phone", fmt.Sprintf("phone is required for %s orders", d.Kind))
	}

	if utf8.RuneCountInString(d.Notes) > maxNotes {
		return apperr.Invalid("notes", fmt.Sprintf("must be at most %d characters", maxNotes))
	}
	return nil
}

func validateLines(lines []models.OrderLine) error {
	if len(lines) == 0 {
		return apperr.Invalid("lines", "order has no lines")
	}
	if len(lines) > maxLines {
		return apperr.Invalid("lines", fmt.Sprintf("a maximum of %d lines is allowed", maxLines))
	}
	for i, l := range lines {
		if l.Quantity < 1 || l.Quantity > maxQuantity {
			return apperr.Invalid(fmt.Sprintf("lines[%d].quantity", i),
				fmt.Sprintf("must be between 1 and %d", maxQuantity))
		}
	}
	return nil
}
