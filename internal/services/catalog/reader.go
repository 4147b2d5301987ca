package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

// MenuSource is the read side of the catalog store.
type MenuSource interface {
	ListCategories(ctx context.Context, tenantID int64) ([]models.Category, error)
	ListSizes(ctx context.Context, tenantID int64) ([]models.Size, error)
	ListProducts(ctx context.Context, tenantID int64) ([]models.Product, error)
	ListPrices(ctx context.Context, tenantID int64) ([]models.ProductPrice, error)
	GetProduct(ctx context.Context, tenantID, id int64) (*models.Product, error)
	GetSize(ctx context.Context, tenantID, id int64) (*models.Size, error)
	GetPrice(ctx context.Context, productID, sizeID int64) (decimal.Decimal, bool, error)
}

// Reader serves the waiter screen. Nothing is cached.
type Reader struct {
	source MenuSource
}

func NewReader(source MenuSource) *Reader {
	return &Reader{source: source}
}

// MenuProduct carries the base price of a product per size id. Sizes without a
// price are absent from Prices.
type MenuProduct struct {
	models.Product
	Prices map[int64]decimal.Decimal `json:"prices"`
}

type CategoryMenu struct {
	Category models.Category `json:"category"`
	Sizes    []models.Size   `json:"sizes"`
	Products []MenuProduct   `json:"products"`
}

// Menu returns every category of the tenant, or only categoryID when set, with
// its sizes, its products and the product/size base-price matrix. Unknown
// categories give an empty menu.
func (r *Reader) Menu(ctx context.Context, tenantID int64, categoryID *int64) ([]CategoryMenu, error) {
	categories, err := r.source.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sizes, err := r.source.ListSizes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	products, err := r.source.ListProducts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	prices, err := r.source.ListPrices(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64]map[int64]decimal.Decimal)
	for _, p := range prices {
		if byProduct[p.ProductID] == nil {
			byProduct[p.ProductID] = make(map[int64]decimal.Decimal)
		}
		byProduct[p.ProductID][p.SizeID] = p.BasePrice
	}

	menu := make([]CategoryMenu, 0, len(categories))
	index := make(map[int64]int, len(categories))
	for _, c := range categories {
		if categoryID != nil && c.ID != *categoryID {
			continue
		}
		index[c.ID] = len(menu)
		menu = append(menu, CategoryMenu{
			Category: c,
			Sizes:    []models.Size{},
			Products: []MenuProduct{},
		})
	}
	for _, s := range sizes {
		if i, ok := index[s.CategoryID]; ok {
			menu[i].Sizes = append(menu[i].Sizes, s)
		}
	}
	for _, p := range products {
		i, ok := index[p.CategoryID]
		if !ok {
			continue
		}
		matrix := byProduct[p.ID]
		if matrix == nil {
			matrix = map[int64]decimal.Decimal{}
		}
		menu[i].Products = append(menu[i].Products, MenuProduct{Product: p, Prices: matrix})
	}
	return menu, nil
}

// ProductOption is one orderable (product, size) pair. HasPrice is false when
// no base price is configured for the pair.
type ProductOption struct {
	Product   models.Product  `json:"product"`
	Size      models.Size     `json:"size"`
	BasePrice decimal.Decimal `json:"base_price"`
	HasPrice  bool            `json:"has_price"`
}

// ProductOption loads a product, a size and the pair's base price. Unknown
// ids are reported against the request fields that carried them.
func (r *Reader) ProductOption(ctx context.Context, tenantID, productID, sizeID int64) (*ProductOption, error) {
	var nf apperr.NotFoundError

	product, err := r.source.GetProduct(ctx, tenantID, productID)
	if errors.As(err, &nf) {
		return nil, apperr.Invalid("product_id", fmt.Sprintf("unknown product %d", productID))
	}
	if err != nil {
		return nil, err
	}
	size, err := r.source.GetSize(ctx, tenantID, sizeID)
	if errors.As(err, &nf) {
		return nil, apperr.Invalid("size_id", fmt.Sprintf("unknown size %d", sizeID))
	}
	if err != nil {
		return nil, err
	}
	price, ok, err := r.source.GetPrice(ctx, productID, sizeID)
	if err != nil {
		return nil, err
	}

	return &ProductOption{Product: *product, Size: *size, BasePrice: price, HasPrice: ok}, nil
}
