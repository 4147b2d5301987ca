package order

import (
	"errors"
	"strings"
	"testing"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

func TestValidateDetails(t *testing.T) {
	tests := []struct {
		name      string
		details   models.OrderDetails
		wantField string
	}{
		{
			name:    "dine in with table",
			details: models.OrderDetails{Kind: models.DineIn, PaymentMethod: models.PaymentCash, PaymentStatus: models.Unpaid, TableNumber: "4"},
		},
		{
			name:      "dine in without table",
			details:   models.OrderDetails{Kind: models.DineIn, PaymentMethod: models.PaymentCash, PaymentStatus: models.Unpaid},
			wantField: "table_number",
		},
		{
			name:    "takeout with phone",
			details: models.OrderDetails{Kind: models.Takeout, PaymentMethod: models.PaymentCard, PaymentStatus: models.Paid, Phone: "600100200"},
		},
		{
			name:      "takeout without phone",
			details:   models.OrderDetails{Kind: models.Takeout, PaymentMethod: models.PaymentCard, PaymentStatus: models.Paid},
			wantField: "phone",
		},
		{
			name:      "delivery without address",
			details:   models.OrderDetails{Kind: models.Delivery, PaymentMethod: models.PaymentCash, PaymentStatus: models.Unpaid, Phone: "600100200"},
			wantField: "address",
		},
		{
			name:      "delivery without phone",
			details:   models.OrderDetails{Kind: models.Delivery, PaymentMethod: models.PaymentCash, PaymentStatus: models.Unpaid, Address: "ul. Długa 1"},
			wantField: "phone",
		},
		{
			name:      "unknown kind",
			details:   models.OrderDetails{Kind: "drive_through", PaymentMethod: models.PaymentCash, PaymentStatus: models.Unpaid},
			wantField: "kind",
		},
		{
			name:      "unknown payment method",
			details:   models.OrderDetails{Kind: models.DineIn, PaymentMethod: "voucher", PaymentStatus: models.Unpaid, TableNumber: "1"},
			wantField: "payment_method",
		},
		{
			name: "notes too long",
			details: models.OrderDetails{
				Kind: models.DineIn, PaymentMethod: models.PaymentCash, PaymentStatus: models.Unpaid,
				TableNumber: "1", Notes: strings.Repeat("ż", maxNotes+1),
			},
			wantField: "notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDetails(tt.details)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateDetails() error = %v", err)
				}
				return
			}
			var ve apperr.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("ValidateDetails() error = %v, want field %s", err, tt.wantField)
			}
		})
	}
}
