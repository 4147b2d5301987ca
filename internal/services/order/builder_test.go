package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/services/catalog"
	"restaurant-pos/internal/services/ingredient"
)

var (
	mozzarella = models.Ingredient{ID: 10, TypeID: 1, Name: "Mozzarella"}
	tomato     = models.Ingredient{ID: 11, TypeID: 2, Name: "Sos pomidorowy"}
	ham        = models.Ingredient{ID: 12, TypeID: 3, Name: "Szynka"}
	olives     = models.Ingredient{ID: 13, TypeID: 4, Name: "Oliwki"}
)

func margherita() *catalog.ProductOption {
	return &catalog.ProductOption{
		Product:   models.Product{ID: 1, TenantID: 1, CategoryID: 1, Name: "Margherita"},
		Size:      models.Size{ID: 2, CategoryID: 1, Name: "32cm"},
		BasePrice: decimal.NewFromInt(30),
		HasPrice:  true,
	}
}

func margheritaSheet() *ingredient.PriceSheet {
	return ingredient.NewPriceSheet(2,
		[]models.Ingredient{mozzarella, tomato},
		[]models.Ingredient{mozzarella, tomato, ham, olives},
		[]models.IngredientTypePrice{{TypeID: 3, SizeID: 2, Price: decimal.NewFromInt(5)}},
	)
}

func TestBuildLine(t *testing.T) {
	tests := []struct {
		name      string
		removed   []int64
		added     []int64
		quantity  int
		option    func(*catalog.ProductOption)
		wantUnit  string
		wantQty   int
		wantField string
	}{
		{name: "plain", quantity: 1, wantUnit: "30", wantQty: 1},
		{name: "added meat", added: []int64{ham.ID}, quantity: 2, wantUnit: "35", wantQty: 2},
		{name: "removal is free", removed: []int64{mozzarella.ID}, quantity: 1, wantUnit: "30", wantQty: 1},
		{name: "unpriced type adds nothing", added: []int64{olives.ID}, quantity: 1, wantUnit: "30", wantQty: 1},
		{name: "zero quantity defaults to one", quantity: 0, wantUnit: "30", wantQty: 1},
		{name: "remove non standard", removed: []int64{ham.ID}, wantField: "removed"},
		{name: "add standard", added: []int64{tomato.ID}, wantField: "added"},
		{name: "add unknown", added: []int64{99}, wantField: "added"},
		{
			name:      "missing base price",
			option:    func(o *catalog.ProductOption) { o.HasPrice = false; o.BasePrice = decimal.Zero },
			wantField: "size_id",
		},
		{
			name:      "size of another category",
			option:    func(o *catalog.ProductOption) { o.Size.CategoryID = 7 },
			wantField: "size_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			option := margherita()
			if tt.option != nil {
				tt.option(option)
			}
			sel, err := SelectionOf(tt.removed, tt.added)
			if err != nil {
				t.Fatalf("SelectionOf() error = %v", err)
			}

			line, err := BuildLine(option, margheritaSheet(), sel, tt.quantity)
			if tt.wantField != "" {
				var ve apperr.ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantField {
					t.Fatalf("BuildLine() error = %v, want validation error on %s", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildLine() error = %v", err)
			}
			if !line.UnitPrice.Equal(decimal.RequireFromString(tt.wantUnit)) {
				t.Errorf("unit price = %s, want %s", line.UnitPrice, tt.wantUnit)
			}
			if line.Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", line.Quantity, tt.wantQty)
			}
			for _, m := range line.Removed {
				if !m.Price.IsZero() {
					t.Errorf("removal %s priced at %s", m.IngredientName, m.Price)
				}
			}
		})
	}
}

func TestBuildLine_CarriesNames(t *testing.T) {
	sel := NewSelection()
	sel.Add(ham.ID)
	sel.Remove(mozzarella.ID)

	line, err := BuildLine(margherita(), margheritaSheet(), sel, 1)
	if err != nil {
		t.Fatalf("BuildLine() error = %v", err)
	}
	if line.ProductName != "Margherita" || line.SizeName != "32cm" {
		t.Errorf("names = %q/%q", line.ProductName, line.SizeName)
	}
	if len(line.Added) != 1 || line.Added[0].IngredientName != "Szynka" || !line.Added[0].Price.Equal(decimal.NewFromInt(5)) {
		t.Errorf("added = %+v", line.Added)
	}
	if len(line.Removed) != 1 || line.Removed[0].Action != models.Removed {
		t.Errorf("removed = %+v", line.Removed)
	}
	if got := line.Total().StringFixed(2); got != "35.00" {
		t.Errorf("total = %s, want 35.00", got)
	}
}

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection()

	sel.Add(ham.ID)
	sel.Remove(ham.ID)
	if len(sel.Added()) != 0 || len(sel.Removed()) != 0 {
		t.Fatalf("add then remove should cancel out, got added=%v removed=%v", sel.Added(), sel.Removed())
	}

	sel.Remove(mozzarella.ID)
	sel.Add(mozzarella.ID)
	if len(sel.Added()) != 0 || len(sel.Removed()) != 0 {
		t.Fatalf("remove then add should restore the recipe, got added=%v removed=%v", sel.Added(), sel.Removed())
	}

	sel.Remove(tomato.ID)
	sel.Remove(tomato.ID)
	if got := sel.Removed(); len(got) != 1 || got[0] != tomato.ID {
		t.Errorf("removed = %v, want [%d]", got, tomato.ID)
	}

	line, err := BuildLine(margherita(), margheritaSheet(), NewSelection(), 1)
	if err != nil {
		t.Fatalf("BuildLine() error = %v", err)
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("restored price = %s, want 30", line.UnitPrice)
	}
}

func TestSelectionOf_RejectsOverlap(t *testing.T) {
	if _, err := SelectionOf([]int64{ham.ID}, []int64{ham.ID}); err == nil {
		t.Fatal("expected error for an id both removed and added")
	}
}
