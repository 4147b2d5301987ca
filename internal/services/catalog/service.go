package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

// IngredientLookup resolves ingredient types and ingredients within a tenant.
// It is served by the ingredient repository.
type IngredientLookup interface {
	GetType(ctx context.Context, tenantID, id int64) (*models.IngredientType, error)
	GetIngredient(ctx context.Context, tenantID, id int64) (*models.Ingredient, error)
}

type Service struct {
	repo        Repository
	ingredients IngredientLookup
}

func NewService(repo Repository, ingredients IngredientLookup) *Service {
	return &Service{repo: repo, ingredients: ingredients}
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	CategoryID    int64
	Name          string
	Prices        map[int64]string
	IngredientIDs []int64
}

// ProductDetails is a product with its base prices and standard ingredients.
type ProductDetails struct {
	models.Product
	Prices        map[int64]decimal.Decimal `json:"prices"`
	IngredientIDs []int64                   `json:"ingredient_ids"`
}

func (s *Service) CreateCategory(ctx context.Context, tenantID int64, name string) (*models.Category, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	c := &models.Category{TenantID: tenantID, Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context, tenantID int64) ([]models.Category, error) {
	return s.repo.ListCategories(ctx, tenantID)
}

func (s *Service) RenameCategory(ctx context.Context, tenantID, id int64, name string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	return s.repo.RenameCategory(ctx, tenantID, id, name)
}

// DeleteCategory removes a category that has neither sizes nor products.
func (s *Service) DeleteCategory(ctx context.Context, tenantID, id int64) error {
	if _, err := s.repo.GetCategory(ctx, tenantID, id); err != nil {
		return err
	}
	sizes, products, err := s.repo.CountCategoryDependents(ctx, id)
	if err != nil {
		return err
	}
	if sizes > 0 || products > 0 {
		return apperr.InUse("category", fmt.Sprintf("it has %d size(s) and %d product(s)", sizes, products))
	}
	return s.repo.DeleteCategory(ctx, tenantID, id)
}

// CreateSize adds a size to a category together with the surcharge of each
// ingredient type at that size.
func (s *Service) CreateSize(ctx context.Context, tenantID, categoryID int64, name string, typePrices map[int64]string) (*models.Size, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownCategory(ctx, tenantID, categoryID); err != nil {
		return nil, err
	}
	prices, err := s.typePrices(ctx, tenantID, typePrices)
	if err != nil {
		return nil, err
	}

	size := &models.Size{CategoryID: categoryID, Name: name}
	if err := s.repo.CreateSize(ctx, size, prices); err != nil {
		return nil, err
	}
	return size, nil
}

func (s *Service) ListSizes(ctx context.Context, tenantID int64, categoryID *int64) ([]models.Size, error) {
	if categoryID == nil {
		return s.repo.ListSizes(ctx, tenantID)
	}
	if _, err := s.repo.GetCategory(ctx, tenantID, *categoryID); err != nil {
		return nil, err
	}
	return s.repo.ListCategorySizes(ctx, *categoryID)
}

func (s *Service) UpdateSize(ctx context.Context, tenantID, id int64, name string, typePrices map[int64]string) (*models.Size, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	size, err := s.repo.GetSize(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	prices, err := s.typePrices(ctx, tenantID, typePrices)
	if err != nil {
		return nil, err
	}

	size.Name = name
	if err := s.repo.UpdateSize(ctx, tenantID, size, prices); err != nil {
		return nil, err
	}
	return size, nil
}

// DeleteSize removes a size and its prices. Sizes referenced by orders are
// kept; the store reports them as in use.
func (s *Service) DeleteSize(ctx context.Context, tenantID, id int64) error {
	return s.repo.DeleteSize(ctx, tenantID, id)
}

func (s *Service) CreateProduct(ctx context.Context, tenantID int64, in ProductInput) (*ProductDetails, error) {
	prices, err := s.validateProduct(ctx, tenantID, in.CategoryID, &in)
	if err != nil {
		return nil, err
	}

	p := &models.Product{TenantID: tenantID, CategoryID: in.CategoryID, Name: in.Name}
	if err := s.repo.CreateProduct(ctx, p, prices, in.IngredientIDs); err != nil {
		return nil, err
	}
	return &ProductDetails{Product: *p, Prices: prices, IngredientIDs: in.IngredientIDs}, nil
}

// UpdateProduct replaces the product's name, prices and standard ingredients.
// The category of an existing product cannot change.
func (s *Service) UpdateProduct(ctx context.Context, tenantID, id int64, in ProductInput) (*ProductDetails, error) {
	p, err := s.repo.GetProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != 0 && in.CategoryID != p.CategoryID {
		return nil, apperr.Invalid("category_id", "cannot be changed")
	}
	prices, err := s.validateProduct(ctx, tenantID, p.CategoryID, &in)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	if err := s.repo.UpdateProduct(ctx, p, prices, in.IngredientIDs); err != nil {
		return nil, err
	}
	return &ProductDetails{Product: *p, Prices: prices, IngredientIDs: in.IngredientIDs}, nil
}

func (s *Service) ListProducts(ctx context.Context, tenantID int64) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, tenantID)
}

func (s *Service) GetProduct(ctx context.Context, tenantID, id int64) (*models.Product, error) {
	return s.repo.GetProduct(ctx, tenantID, id)
}

// DeleteProduct removes a product with its prices and standard ingredients.
// Products referenced by orders are kept.
func (s *Service) DeleteProduct(ctx context.Context, tenantID, id int64) error {
	return s.repo.DeleteProduct(ctx, tenantID, id)
}

func (s *Service) validateProduct(ctx context.Context, tenantID, categoryID int64, in *ProductInput) (map[int64]decimal.Decimal, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	in.Name = name
	if _, err := s.ownCategory(ctx, tenantID, categoryID); err != nil {
		return nil, err
	}

	if len(in.Prices) == 0 {
		return nil, apperr.Invalid("prices", "at least one size price is required")
	}
	prices, err := models.ParsePriceMap("prices", in.Prices)
	if err != nil {
		return nil, err
	}
	sizes, err := s.repo.ListCategorySizes(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	inCategory := make(map[int64]bool, len(sizes))
	for _, size := range sizes {
		inCategory[size.ID] = true
	}
	for sizeID := range prices {
		if !inCategory[sizeID] {
			return nil, apperr.Invalid(fmt.Sprintf("prices[%d]", sizeID), "size does not belong to the product's category")
		}
	}

	seen := make(map[int64]bool, len(in.IngredientIDs))
	ids := make([]int64, 0, len(in.IngredientIDs))
	for _, id := range in.IngredientIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		_, err := s.ingredients.GetIngredient(ctx, tenantID, id)
		var nf apperr.NotFoundError
		if errors.As(err, &nf) {
			return nil, apperr.Invalid("ingredient_ids", fmt.Sprintf("unknown ingredient %d", id))
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	in.IngredientIDs = ids
	return prices, nil
}

func (s *Service) typePrices(ctx context.Context, tenantID int64, raw map[int64]string) (map[int64]decimal.Decimal, error) {
	prices, err := models.ParsePriceMap("prices", raw)
	if err != nil {
		return nil, err
	}
	for typeID := range prices {
		_, err := s.ingredients.GetType(ctx, tenantID, typeID)
		var nf apperr.NotFoundError
		if errors.As(err, &nf) {
			return nil, apperr.Invalid(fmt.Sprintf("prices[%d]", typeID), "unknown ingredient type")
		}
		if err != nil {
			return nil, err
		}
	}
	return prices, nil
}

func (s *Service) ownCategory(ctx context.Context, tenantID, id int64) (*models.Category, error) {
	c, err := s.repo.GetCategory(ctx, tenantID, id)
	var nf apperr.NotFoundError
	if errors.As(err, &nf) {
		return nil, apperr.Invalid("category_id", fmt.Sprintf("unknown category %d", id))
	}
	return c, err
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Invalid("name", "is required")
	}
	return name, nil
}
