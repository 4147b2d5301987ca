package ingredient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
)

// Repository is the storage used by the ingredient service and pricer.
type Repository interface {
	CreateType(ctx context.Context, t *models.IngredientType) error
	ListTypes(ctx context.Context, tenantID int64) ([]models.IngredientType, error)
	GetType(ctx context.Context, tenantID, id int64) (*models.IngredientType, error)
	RenameType(ctx context.Context, tenantID, id int64, name string) error
	CountIngredientsOfType(ctx context.Context, typeID int64) (int, error)
	DeleteType(ctx context.Context, tenantID, id int64) error

	CreateIngredient(ctx context.Context, i *models.Ingredient) error
	ListIngredients(ctx context.Context, tenantID int64) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, tenantID, id int64) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, i *models.Ingredient) error
	CountProductsUsing(ctx context.Context, ingredientID int64) (int, error)
	DeleteIngredient(ctx context.Context, tenantID, id int64) error

	SetTypePrices(ctx context.Context, sizeID int64, prices map[int64]decimal.Decimal) error
	ListTypePrices(ctx context.Context, sizeID int64) ([]models.IngredientTypePrice, error)
	ListProductIngredients(ctx context.Context, productID int64) ([]models.Ingredient, error)
}

type PostgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateType(ctx context.Context, t *models.IngredientType) error {
	err := r.db.QueryRow(ctx, database.InsertIngredientTypeSQL, t.TenantID, t.Name).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient type: %w", apperr.FromPg(err, "ingredient type", 0))
	}
	return nil
}

func (r *PostgresRepository) ListTypes(ctx context.Context, tenantID int64) ([]models.IngredientType, error) {
	rows, err := r.db.Query(ctx, database.ListIngredientTypesSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredient types: %w", err)
	}
	return pgx.CollectRows(rows, scanType)
}

func (r *PostgresRepository) GetType(ctx context.Context, tenantID, id int64) (*models.IngredientType, error) {
	rows, err := r.db.Query(ctx, database.GetIngredientTypeSQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient type: %w", err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanType)
	if err != nil {
		return nil, apperr.FromPg(err, "ingredient type", id)
	}
	return &t, nil
}

func (r *PostgresRepository) RenameType(ctx context.Context, tenantID, id int64, name string) error {
	tag, err := r.db.Exec(ctx, database.RenameIngredientTypeSQL, tenantID, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename ingredient type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ingredient type", id)
	}
	return nil
}

func (r *PostgresRepository) CountIngredientsOfType(ctx context.Context, typeID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, database.CountIngredientsOfTypeSQL, typeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteType(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteIngredientTypeSQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "ingredient type", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ingredient type", id)
	}
	return nil
}

func (r *PostgresRepository) CreateIngredient(ctx context.Context, i *models.Ingredient) error {
	err := r.db.QueryRow(ctx, database.InsertIngredientSQL, i.TenantID, i.TypeID, i.Name).Scan(&i.ID, &i.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", apperr.FromPg(err, "ingredient", 0))
	}
	return nil
}

func (r *PostgresRepository) ListIngredients(ctx context.Context, tenantID int64) ([]models.Ingredient, error) {
	rows, err := r.db.Query(ctx, database.ListIngredientsSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return pgx.CollectRows(rows, scanIngredient)
}

func (r *PostgresRepository) GetIngredient(ctx context.Context, tenantID, id int64) (*models.Ingredient, error) {
	rows, err := r.db.Query(ctx, database.GetIngredientSQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	i, err := pgx.CollectExactlyOneRow(rows, scanIngredient)
	if err != nil {
		return nil, apperr.FromPg(err, "ingredient", id)
	}
	return &i, nil
}

func (r *PostgresRepository) UpdateIngredient(ctx context.Context, i *models.Ingredient) error {
	tag, err := r.db.Exec(ctx, database.UpdateIngredientSQL, i.TenantID, i.ID, i.Name, i.TypeID)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", apperr.FromPg(err, "ingredient", i.ID))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ingredient", i.ID)
	}
	return nil
}

func (r *PostgresRepository) CountProductsUsing(ctx context.Context, ingredientID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, database.CountProductsUsingIngredientSQL, ingredientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteIngredient(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteIngredientSQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "ingredient", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ingredient", id)
	}
	return nil
}

// SetTypePrices upserts every (type, size) price in one transaction.
func (r *PostgresRepository) SetTypePrices(ctx context.Context, sizeID int64, prices map[int64]decimal.Decimal) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for typeID, price := range prices {
			if _, err := tx.Exec(ctx, database.UpsertIngredientTypePriceSQL, typeID, sizeID, price); err != nil {
				return fmt.Errorf("failed to set price of type %d: %w", typeID, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) ListTypePrices(ctx context.Context, sizeID int64) ([]models.IngredientTypePrice, error) {
	rows, err := r.db.Query(ctx, database.ListIngredientTypePricesSQL, sizeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredient type prices: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.IngredientTypePrice, error) {
		var p models.IngredientTypePrice
		err := row.Scan(&p.TypeID, &p.TypeName, &p.SizeID, &p.Price)
		return p, err
	})
}

func (r *PostgresRepository) ListProductIngredients(ctx context.Context, productID int64) ([]models.Ingredient, error) {
	rows, err := r.db.Query(ctx, database.ListProductIngredientsSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product ingredients: %w", err)
	}
	return pgx.CollectRows(rows, scanIngredient)
}

func scanType(row pgx.CollectableRow) (models.IngredientType, error) {
	var t models.IngredientType
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.CreatedAt)
	return t, err
}

func scanIngredient(row pgx.CollectableRow) (models.Ingredient, error) {
	var i models.Ingredient
	err := row.Scan(&i.ID, &i.TenantID, &i.TypeID, &i.TypeName, &i.Name, &i.CreatedAt)
	return i, err
}
