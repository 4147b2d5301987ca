package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

// SizeLookup resolves a size within a tenant. It is served by the catalog
// repository.
type SizeLookup interface {
	GetSize(ctx context.Context, tenantID, id int64) (*models.Size, error)
}

type Service struct {
	repo  Repository
	sizes SizeLookup
}

func NewService(repo Repository, sizes SizeLookup) *Service {
	return &Service{repo: repo, sizes: sizes}
}

func (s *Service) CreateType(ctx context.Context, tenantID int64, name string) (*models.IngredientType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	t := &models.IngredientType{TenantID: tenantID, Name: name}
	if err := s.repo.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTypes(ctx context.Context, tenantID int64) ([]models.IngredientType, error) {
	return s.repo.ListTypes(ctx, tenantID)
}

func (s *Service) RenameType(ctx context.Context, tenantID, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Invalid("name", "is required")
	}
	return s.repo.RenameType(ctx, tenantID, id, name)
}

// DeleteType removes an ingredient type that has no ingredients.
func (s *Service) DeleteType(ctx context.Context, tenantID, id int64) error {
	if _, err := s.repo.GetType(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.repo.CountIngredientsOfType(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.InUse("ingredient type", fmt.Sprintf("%d ingredient(s) belong to it", n))
	}
	return s.repo.DeleteType(ctx, tenantID, id)
}

func (s *Service) CreateIngredient(ctx context.Context, tenantID, typeID int64, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	t, err := s.ownType(ctx, tenantID, typeID)
	if err != nil {
		return nil, err
	}

	i := &models.Ingredient{TenantID: tenantID, TypeID: typeID, TypeName: t.Name, Name: name}
	if err := s.repo.CreateIngredient(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) ListIngredients(ctx context.Context, tenantID int64) ([]models.Ingredient, error) {
	return s.repo.ListIngredients(ctx, tenantID)
}

func (s *Service) UpdateIngredient(ctx context.Context, tenantID, id, typeID int64, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	t, err := s.ownType(ctx, tenantID, typeID)
	if err != nil {
		return nil, err
	}

	i, err := s.repo.GetIngredient(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	i.Name = name
	i.TypeID = typeID
	i.TypeName = t.Name
	if err := s.repo.UpdateIngredient(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// DeleteIngredient removes an ingredient no product uses as standard.
func (s *Service) DeleteIngredient(ctx context.Context, tenantID, id int64) error {
	if _, err := s.repo.GetIngredient(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.repo.CountProductsUsing(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.InUse("ingredient", fmt.Sprintf("%d product(s) use it", n))
	}
	return s.repo.DeleteIngredient(ctx, tenantID, id)
}

// SetTypePrices stores the surcharge of each ingredient type at a size.
func (s *Service) SetTypePrices(ctx context.Context, tenantID, sizeID int64, raw map[int64]string) ([]models.IngredientTypePrice, error) {
	if _, err := s.sizes.GetSize(ctx, tenantID, sizeID); err != nil {
		return nil, err
	}
	prices, err := models.ParsePriceMap("prices", raw)
	if err != nil {
		return nil, err
	}
	for typeID := range prices {
		if _, err := s.ownType(ctx, tenantID, typeID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SetTypePrices(ctx, sizeID, prices); err != nil {
		return nil, err
	}
	return s.repo.ListTypePrices(ctx, sizeID)
}

func (s *Service) ListTypePrices(ctx context.Context, tenantID, sizeID int64) ([]models.IngredientTypePrice, error) {
	if _, err := s.sizes.GetSize(ctx, tenantID, sizeID); err != nil {
		return nil, err
	}
	return s.repo.ListTypePrices(ctx, sizeID)
}

func (s *Service) ownType(ctx context.Context, tenantID, typeID int64) (*models.IngredientType, error) {
	t, err := s.repo.GetType(ctx, tenantID, typeID)
	var nf apperr.NotFoundError
	if errors.As(err, &nf) {
		return nil, apperr.Invalid("type_id", fmt.Sprintf("unknown ingredient type %d", typeID))
	}
	return t, err
}
