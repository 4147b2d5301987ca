package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

func pizzaLine(unit int64, qty int) models.OrderLine {
	return models.OrderLine{ProductID: 1, SizeID: 2, UnitPrice: decimal.NewFromInt(unit), BasePrice: decimal.NewFromInt(unit), Quantity: qty}
}

func TestDraft_SubmitWithoutLines(t *testing.T) {
	d := NewDraft()
	called := false

	_, err := d.Submit(context.Background(), func(context.Context, models.OrderDetails, []models.OrderLine) (*models.Order, error) {
		called = true
		return &models.Order{}, nil
	})

	var ve apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit() error = %v, want validation error", err)
	}
	if called {
		t.Error("store must not be called for an empty draft")
	}
	if d.State() != DraftEmpty {
		t.Errorf("state = %s, want %s", d.State(), DraftEmpty)
	}
}

func TestDraft_SubmitFailureKeepsLines(t *testing.T) {
	d := NewDraft()
	_ = d.AddLine(pizzaLine(30, 1))
	_ = d.AddLine(pizzaLine(8, 2))

	_, err := d.Submit(context.Background(), func(context.Context, models.OrderDetails, []models.OrderLine) (*models.Order, error) {
		return nil, errors.New("connection reset")
	})
	if err == nil {
		t.Fatal("expected store error")
	}

	view := d.View()
	if view.State != DraftHasLines || len(view.Lines) != 2 {
		t.Fatalf("after failure state = %s lines = %d", view.State, len(view.Lines))
	}
	if got := view.Total.StringFixed(2); got != "46.00" {
		t.Errorf("total = %s, want 46.00", got)
	}
}

func TestDraft_SubmitSuccessResets(t *testing.T) {
	d := NewDraft()
	_ = d.SetDetails(models.OrderDetails{Kind: models.Takeout, PaymentMethod: models.PaymentCard, PaymentStatus: models.Paid, Phone: "500100200"})
	_ = d.AddLine(pizzaLine(30, 1))

	var gotDetails models.OrderDetails
	order, err := d.Submit(context.Background(), func(_ context.Context, details models.OrderDetails, lines []models.OrderLine) (*models.Order, error) {
		gotDetails = details
		return &models.Order{Number: "250101-001", Lines: lines}, nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if order.Number != "250101-001" || gotDetails.Kind != models.Takeout {
		t.Errorf("unexpected order %+v details %+v", order, gotDetails)
	}

	view := d.View()
	if view.State != DraftEmpty || len(view.Lines) != 0 {
		t.Errorf("after success state = %s lines = %d", view.State, len(view.Lines))
	}
	if view.Details != models.DefaultDetails() {
		t.Errorf("details = %+v, want defaults", view.Details)
	}
}

func TestDraft_LockedWhileSubmitting(t *testing.T) {
	d := NewDraft()
	_ = d.AddLine(pizzaLine(30, 1))

	_, _ = d.Submit(context.Background(), func(context.Context, models.OrderDetails, []models.OrderLine) (*models.Order, error) {
		if err := d.AddLine(pizzaLine(8, 1)); err == nil {
			t.Error("AddLine() during submit should fail")
		}
		if _, err := d.Submit(context.Background(), nil); err == nil {
			t.Error("second Submit() during submit should fail")
		}
		return nil, errors.New("abort")
	})

	if len(d.View().Lines) != 1 {
		t.Errorf("lines = %d, want 1", len(d.View().Lines))
	}
}

func TestDraft_RemoveLine(t *testing.T) {
	d := NewDraft()
	_ = d.AddLine(pizzaLine(30, 1))

	if err := d.RemoveLine(3); err == nil {
		t.Error("RemoveLine() out of range should fail")
	}
	if err := d.RemoveLine(0); err != nil {
		t.Fatalf("RemoveLine() error = %v", err)
	}
	if d.State() != DraftEmpty {
		t.Errorf("state = %s, want %s", d.State(), DraftEmpty)
	}
}

func TestDraftStore_PerWaiter(t *testing.T) {
	store := NewDraftStore()
	_ = store.Get(1, "anna").AddLine(pizzaLine(30, 1))

	if store.Get(1, "piotr").State() != DraftEmpty {
		t.Error("drafts of different waiters must be separate")
	}
	if store.Get(2, "anna").State() != DraftEmpty {
		t.Error("drafts of different tenants must be separate")
	}
	if store.Get(1, "anna").State() != DraftHasLines {
		t.Error("draft should be kept between calls")
	}

	store.Discard(1, "anna")
	if store.Get(1, "anna").State() != DraftEmpty {
		t.Error("discarded draft should start empty")
	}
}
