package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

func TestReader_Menu(t *testing.T) {
	ctx := context.Background()
	repo, _ := pizzaCatalog()
	repo.products[10] = models.Product{ID: 10, TenantID: tenant, CategoryID: 1, Name: "Margherita"}
	repo.products[11] = models.Product{ID: 11, TenantID: tenant, CategoryID: 1, Name: "Capricciosa"}
	repo.prices[10] = map[int64]decimal.Decimal{2: decimal.NewFromInt(30)}
	repo.nextID = 20
	reader := NewReader(repo)

	menu, err := reader.Menu(ctx, tenant, nil)
	if err != nil {
		t.Fatalf("Menu() error = %v", err)
	}
	if len(menu) != 2 {
		t.Fatalf("categories = %d, want 2", len(menu))
	}

	pizza := menu[0]
	if pizza.Category.Name != "Pizza" || len(pizza.Sizes) != 1 || len(pizza.Products) != 2 {
		t.Fatalf("unexpected pizza menu %+v", pizza)
	}
	for _, p := range pizza.Products {
		price, ok := p.Prices[2]
		switch p.ID {
		case 10:
			if !ok || !price.Equal(decimal.NewFromInt(30)) {
				t.Errorf("Margherita price = %s, %v", price, ok)
			}
		case 11:
			if ok {
				t.Errorf("Capricciosa should have no price, got %s", price)
			}
		}
	}

	drinks := menu[1]
	if len(drinks.Products) != 0 || drinks.Products == nil {
		t.Errorf("drinks products = %#v, want empty non-nil", drinks.Products)
	}

	tests := []struct {
		name       string
		categoryID int64
		want       int
	}{
		{name: "one category", categoryID: 1, want: 1},
		{name: "unknown category", categoryID: 99, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu, err := reader.Menu(ctx, tenant, &tt.categoryID)
			if err != nil {
				t.Fatalf("Menu() error = %v", err)
			}
			if len(menu) != tt.want {
				t.Errorf("categories = %d, want %d", len(menu), tt.want)
			}
		})
	}
}

func TestReader_ProductOption(t *testing.T) {
	ctx := context.Background()
	repo, _ := pizzaCatalog()
	repo.products[10] = models.Product{ID: 10, TenantID: tenant, CategoryID: 1, Name: "Margherita"}
	repo.prices[10] = map[int64]decimal.Decimal{2: decimal.NewFromInt(30)}
	reader := NewReader(repo)

	opt, err := reader.ProductOption(ctx, tenant, 10, 2)
	if err != nil {
		t.Fatalf("ProductOption() error = %v", err)
	}
	if !opt.HasPrice || !opt.BasePrice.Equal(decimal.NewFromInt(30)) || opt.Size.Name != "Duża" {
		t.Errorf("unexpected option %+v", opt)
	}

	opt, err = reader.ProductOption(ctx, tenant, 10, 4)
	if err != nil {
		t.Fatalf("ProductOption() error = %v", err)
	}
	if opt.HasPrice {
		t.Errorf("size of another category should have no price")
	}

	tests := []struct {
		name      string
		productID int64
		sizeID    int64
		wantField string
	}{
		{name: "unknown product", productID: 99, sizeID: 2, wantField: "product_id"},
		{name: "unknown size", productID: 10, sizeID: 99, wantField: "size_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ProductOption(ctx, tenant, tt.productID, tt.sizeID)
			var ve apperr.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Fatalf("expected %s validation error, got %v", tt.wantField, err)
			}
		})
	}
}
