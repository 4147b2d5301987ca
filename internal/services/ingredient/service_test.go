package ingredient

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

type fakeRepo struct {
	types       map[int64]models.IngredientType
	ingredients map[int64]models.Ingredient
	usage       map[int64]int
	standard    map[int64][]models.Ingredient
	typePrices  map[int64]map[int64]decimal.Decimal
	nextID      int64
	deleted     []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		types:       map[int64]models.IngredientType{},
		ingredients: map[int64]models.Ingredient{},
		usage:       map[int64]int{},
		standard:    map[int64][]models.Ingredient{},
		typePrices:  map[int64]map[int64]decimal.Decimal{},
		nextID:      100,
	}
}

func (f *fakeRepo) CreateType(_ context.Context, t *models.IngredientType) error {
	f.nextID++
	t.ID = f.nextID
	f.types[t.ID] = *t
	return nil
}

func (f *fakeRepo) ListTypes(_ context.Context, tenantID int64) ([]models.IngredientType, error) {
	var out []models.IngredientType
	for _, t := range f.types {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetType(_ context.Context, tenantID, id int64) (*models.IngredientType, error) {
	t, ok := f.types[id]
	if !ok || t.TenantID != tenantID {
		return nil, apperr.NotFound("ingredient type", id)
	}
	return &t, nil
}

func (f *fakeRepo) RenameType(_ context.Context, tenantID, id int64, name string) error {
	t, ok := f.types[id]
	if !ok || t.TenantID != tenantID {
		return apperr.NotFound("ingredient type", id)
	}
	t.Name = name
	f.types[id] = t
	return nil
}

func (f *fakeRepo) CountIngredientsOfType(_ context.Context, typeID int64) (int, error) {
	n := 0
	for _, i := range f.ingredients {
		if i.TypeID == typeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) DeleteType(_ context.Context, _ int64, id int64) error {
	delete(f.types, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) CreateIngredient(_ context.Context, i *models.Ingredient) error {
	f.nextID++
	i.ID = f.nextID
	f.ingredients[i.ID] = *i
	return nil
}

func (f *fakeRepo) ListIngredients(_ context.Context, tenantID int64) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for _, i := range f.ingredients {
		if i.TenantID == tenantID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetIngredient(_ context.Context, tenantID, id int64) (*models.Ingredient, error) {
	i, ok := f.ingredients[id]
	if !ok || i.TenantID != tenantID {
		return nil, apperr.NotFound("ingredient", id)
	}
	return &i, nil
}

func (f *fakeRepo) UpdateIngredient(_ context.Context, i *models.Ingredient) error {
	f.ingredients[i.ID] = *i
	return nil
}

func (f *fakeRepo) CountProductsUsing(_ context.Context, ingredientID int64) (int, error) {
	return f.usage[ingredientID], nil
}

func (f *fakeRepo) DeleteIngredient(_ context.Context, _ int64, id int64) error {
	delete(f.ingredients, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) SetTypePrices(_ context.Context, sizeID int64, prices map[int64]decimal.Decimal) error {
	if f.typePrices[sizeID] == nil {
		f.typePrices[sizeID] = map[int64]decimal.Decimal{}
	}
	for typeID, p := range prices {
		f.typePrices[sizeID][typeID] = p
	}
	return nil
}

func (f *fakeRepo) ListTypePrices(_ context.Context, sizeID int64) ([]models.IngredientTypePrice, error) {
	var out []models.IngredientTypePrice
	for typeID, p := range f.typePrices[sizeID] {
		out = append(out, models.IngredientTypePrice{TypeID: typeID, SizeID: sizeID, Price: p})
	}
	return out, nil
}

func (f *fakeRepo) ListProductIngredients(_ context.Context, productID int64) ([]models.Ingredient, error) {
	return f.standard[productID], nil
}

type fakeSizes map[int64]models.Size

func (f fakeSizes) GetSize(_ context.Context, _ int64, id int64) (*models.Size, error) {
	s, ok := f[id]
	if !ok {
		return nil, apperr.NotFound("size", id)
	}
	return &s, nil
}

const tenant = int64(1)

func TestService_DeleteType(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(*fakeRepo) int64
		wantInUse bool
		wantErr   bool
	}{
		{
			name: "empty type is deleted",
			setup: func(r *fakeRepo) int64 {
				r.types[1] = models.IngredientType{ID: 1, TenantID: tenant, Name: "Sosy"}
				return 1
			},
		},
		{
			name: "type with ingredients is kept",
			setup: func(r *fakeRepo) int64 {
				r.types[1] = models.IngredientType{ID: 1, TenantID: tenant, Name: "Mięso"}
				r.ingredients[2] = models.Ingredient{ID: 2, TenantID: tenant, TypeID: 1, Name: "Szynka"}
				return 1
			},
			wantInUse: true,
			wantErr:   true,
		},
		{
			name: "other tenant's type",
			setup: func(r *fakeRepo) int64 {
				r.types[1] = models.IngredientType{ID: 1, TenantID: 99, Name: "Mięso"}
				return 1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			id := tt.setup(repo)
			svc := NewService(repo, fakeSizes{})

			err := svc.DeleteType(ctx, tenant, id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DeleteType() error = %v, wantErr %v", err, tt.wantErr)
			}
			var inUse apperr.InUseError
			if errors.As(err, &inUse) != tt.wantInUse {
				t.Errorf("InUseError = %v, want %v", errors.As(err, &inUse), tt.wantInUse)
			}
			if tt.wantErr && len(repo.deleted) != 0 {
				t.Errorf("nothing should be deleted, got %v", repo.deleted)
			}
		})
	}
}

func TestService_DeleteIngredientUsedByProduct(t *testing.T) {
	repo := newFakeRepo()
	repo.ingredients[5] = models.Ingredient{ID: 5, TenantID: tenant, TypeID: 1, Name: "Mozzarella"}
	repo.usage[5] = 2
	svc := NewService(repo, fakeSizes{})

	err := svc.DeleteIngredient(context.Background(), tenant, 5)
	var inUse apperr.InUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected InUseError, got %v", err)
	}
	if _, ok := repo.ingredients[5]; !ok {
		t.Errorf("ingredient was deleted")
	}
}

func TestService_CreateIngredientUnknownType(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeSizes{})

	_, err := svc.CreateIngredient(context.Background(), tenant, 42, "Szynka")
	var ve apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != "type_id" {
		t.Fatalf("expected type_id validation error, got %v", err)
	}
}

func TestService_SetTypePrices(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.types[1] = models.IngredientType{ID: 1, TenantID: tenant, Name: "Mięso"}
	sizes := fakeSizes{10: {ID: 10, CategoryID: 3, Name: "Duża"}}
	svc := NewService(repo, sizes)

	prices, err := svc.SetTypePrices(ctx, tenant, 10, map[int64]string{1: "5,00"})
	if err != nil {
		t.Fatalf("SetTypePrices() error = %v", err)
	}
	if len(prices) != 1 || !prices[0].Price.Equal(decimal.NewFromInt(5)) {
		t.Errorf("prices = %+v", prices)
	}

	tests := []struct {
		name   string
		sizeID int64
		raw    map[int64]string
	}{
		{name: "negative", sizeID: 10, raw: map[int64]string{1: "-1"}},
		{name: "not a number", sizeID: 10, raw: map[int64]string{1: "pięć"}},
		{name: "foreign type", sizeID: 10, raw: map[int64]string{7: "1"}},
		{name: "unknown size", sizeID: 11, raw: map[int64]string{1: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SetTypePrices(ctx, tenant, tt.sizeID, tt.raw); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
