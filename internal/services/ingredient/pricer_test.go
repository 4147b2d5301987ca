package ingredient

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/models"
)

func TestPricer_Sheet(t *testing.T) {
	repo := newFakeRepo()
	mozzarella := models.Ingredient{ID: 1, TenantID: tenant, TypeID: 10, Name: "Mozzarella"}
	ham := models.Ingredient{ID: 2, TenantID: tenant, TypeID: 20, Name: "Szynka"}
	olives := models.Ingredient{ID: 3, TenantID: tenant, TypeID: 30, Name: "Oliwki"}
	for _, i := range []models.Ingredient{mozzarella, ham, olives} {
		repo.ingredients[i.ID] = i
	}
	repo.standard[7] = []models.Ingredient{mozzarella}
	repo.typePrices[5] = map[int64]decimal.Decimal{20: decimal.NewFromInt(5)}

	sheet, err := NewPricer(repo).Sheet(context.Background(), tenant, 7, 5)
	if err != nil {
		t.Fatalf("Sheet() error = %v", err)
	}

	if !sheet.IsStandard(mozzarella.ID) || sheet.IsStandard(ham.ID) {
		t.Errorf("unexpected standard set %+v", sheet.Standard)
	}
	if len(sheet.Available) != 3 {
		t.Errorf("available = %d, want 3", len(sheet.Available))
	}

	tests := []struct {
		name string
		ing  models.Ingredient
		want decimal.Decimal
	}{
		{name: "priced type", ing: ham, want: decimal.NewFromInt(5)},
		{name: "type without price", ing: olives, want: decimal.Zero},
		{name: "standard ingredient type", ing: mozzarella, want: decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheet.Price(tt.ing); !got.Equal(tt.want) {
				t.Errorf("Price() = %s, want %s", got, tt.want)
			}
		})
	}
}
