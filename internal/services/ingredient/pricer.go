package ingredient

import (
	"context"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/models"
)

// PriceSource is what the pricer reads; every call goes to the store.
type PriceSource interface {
	ListIngredients(ctx context.Context, tenantID int64) ([]models.Ingredient, error)
	ListTypePrices(ctx context.Context, sizeID int64) ([]models.IngredientTypePrice, error)
	ListProductIngredients(ctx context.Context, productID int64) ([]models.Ingredient, error)
}

type Pricer struct {
	source PriceSource
}

func NewPricer(source PriceSource) *Pricer {
	return &Pricer{source: source}
}

// PriceSheet holds the ingredient data needed to price one product in one size.
type PriceSheet struct {
	SizeID    int64                       `json:"size_id"`
	Standard  []models.Ingredient         `json:"standard"`
	Available map[int64]models.Ingredient `json:"available"`
	Deltas    map[int64]decimal.Decimal   `json:"deltas"`
}

// Price is the surcharge for adding ing at the sheet's size. Types without a
// configured price cost nothing.
func (p *PriceSheet) Price(ing models.Ingredient) decimal.Decimal {
	if d, ok := p.Deltas[ing.TypeID]; ok {
		return d
	}
	return decimal.Zero
}

// IsStandard reports whether the ingredient is part of the product recipe.
func (p *PriceSheet) IsStandard(id int64) bool {
	for _, ing := range p.Standard {
		if ing.ID == id {
			return true
		}
	}
	return false
}

// Sheet loads the product's standard ingredients, the tenant's ingredients and
// the per-type surcharges at sizeID.
func (pr *Pricer) Sheet(ctx context.Context, tenantID, productID, sizeID int64) (*PriceSheet, error) {
	standard, err := pr.source.ListProductIngredients(ctx, productID)
	if err != nil {
		return nil, err
	}
	all, err := pr.source.ListIngredients(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	prices, err := pr.source.ListTypePrices(ctx, sizeID)
	if err != nil {
		return nil, err
	}

	return NewPriceSheet(sizeID, standard, all, prices), nil
}

func NewPriceSheet(sizeID int64, standard, available []models.Ingredient, prices []models.IngredientTypePrice) *PriceSheet {
	sheet := &PriceSheet{
		SizeID:    sizeID,
		Standard:  standard,
		Available: make(map[int64]models.Ingredient, len(available)),
		Deltas:    make(map[int64]decimal.Decimal, len(prices)),
	}
	for _, ing := range available {
		sheet.Available[ing.ID] = ing
	}
	for _, ing := range standard {
		sheet.Available[ing.ID] = ing
	}
	for _, p := range prices {
		sheet.Deltas[p.TypeID] = p.Price
	}
	return sheet
}
