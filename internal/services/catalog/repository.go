package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
)

type Repository interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context, tenantID int64) ([]models.Category, error)
	GetCategory(ctx context.Context, tenantID, id int64) (*models.Category, error)
	RenameCategory(ctx context.Context, tenantID, id int64, name string) error
	CountCategoryDependents(ctx context.Context, categoryID int64) (sizes, products int, err error)
	DeleteCategory(ctx context.Context, tenantID, id int64) error

	CreateSize(ctx context.Context, s *models.Size, typePrices map[int64]decimal.Decimal) error
	ListSizes(ctx context.Context, tenantID int64) ([]models.Size, error)
	ListCategorySizes(ctx context.Context, categoryID int64) ([]models.Size, error)
	GetSize(ctx context.Context, tenantID, id int64) (*models.Size, error)
	UpdateSize(ctx context.Context, tenantID int64, s *models.Size, typePrices map[int64]decimal.Decimal) error
	DeleteSize(ctx context.Context, tenantID, id int64) error

	CreateProduct(ctx context.Context, p *models.Product, prices map[int64]decimal.Decimal, ingredientIDs []int64) error
	UpdateProduct(ctx context.Context, p *models.Product, prices map[int64]decimal.Decimal, ingredientIDs []int64) error
	ListProducts(ctx context.Context, tenantID int64) ([]models.Product, error)
	GetProduct(ctx context.Context, tenantID, id int64) (*models.Product, error)
	DeleteProduct(ctx context.Context, tenantID, id int64) error
	ListPrices(ctx context.Context, tenantID int64) ([]models.ProductPrice, error)
	GetPrice(ctx context.Context, productID, sizeID int64) (decimal.Decimal, bool, error)
}

type PostgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx, database.InsertCategorySQL, c.TenantID, c.Name).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", apperr.FromPg(err, "category", 0))
	}
	return nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, tenantID int64) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, database.ListCategoriesSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

func (r *PostgresRepository) GetCategory(ctx context.Context, tenantID, id int64) (*models.Category, error) {
	rows, err := r.db.Query(ctx, database.GetCategorySQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		return nil, apperr.FromPg(err, "category", id)
	}
	return &c, nil
}

func (r *PostgresRepository) RenameCategory(ctx context.Context, tenantID, id int64, name string) error {
	tag, err := r.db.Exec(ctx, database.RenameCategorySQL, tenantID, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category", id)
	}
	return nil
}

func (r *PostgresRepository) CountCategoryDependents(ctx context.Context, categoryID int64) (int, int, error) {
	var sizes, products int
	if err := r.db.QueryRow(ctx, database.CountCategorySizesSQL, categoryID).Scan(&sizes); err != nil {
		return 0, 0, fmt.Errorf("failed to count sizes: %w", err)
	}
	if err := r.db.QueryRow(ctx, database.CountCategoryProductsSQL, categoryID).Scan(&products); err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return sizes, products, nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteCategorySQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "category", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category", id)
	}
	return nil
}

// CreateSize inserts the size together with its ingredient-type prices.
func (r *PostgresRepository) CreateSize(ctx context.Context, s *models.Size, typePrices map[int64]decimal.Decimal) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, database.InsertSizeSQL, s.CategoryID, s.Name).Scan(&s.ID, &s.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert size: %w", apperr.FromPg(err, "size", 0))
		}
		for typeID, price := range typePrices {
			if _, err := tx.Exec(ctx, database.UpsertIngredientTypePriceSQL, typeID, s.ID, price); err != nil {
				return fmt.Errorf("failed to insert price of ingredient type %d: %w", typeID, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) ListSizes(ctx context.Context, tenantID int64) ([]models.Size, error) {
	rows, err := r.db.Query(ctx, database.ListSizesByTenantSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}
	return pgx.CollectRows(rows, scanSize)
}

func (r *PostgresRepository) ListCategorySizes(ctx context.Context, categoryID int64) ([]models.Size, error) {
	rows, err := r.db.Query(ctx, database.ListSizesByCategorySQL, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}
	return pgx.CollectRows(rows, scanSize)
}

func (r *PostgresRepository) GetSize(ctx context.Context, tenantID, id int64) (*models.Size, error) {
	rows, err := r.db.Query(ctx, database.GetSizeSQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get size: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSize)
	if err != nil {
		return nil, apperr.FromPg(err, "size", id)
	}
	return &s, nil
}

// UpdateSize renames the size and upserts the given ingredient-type prices.
// Types missing from typePrices keep their current price.
func (r *PostgresRepository) UpdateSize(ctx context.Context, tenantID int64, s *models.Size, typePrices map[int64]decimal.Decimal) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, database.RenameSizeSQL, tenantID, s.ID, s.Name)
		if err != nil {
			return fmt.Errorf("failed to rename size: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("size", s.ID)
		}
		for typeID, price := range typePrices {
			if _, err := tx.Exec(ctx, database.UpsertIngredientTypePriceSQL, typeID, s.ID, price); err != nil {
				return fmt.Errorf("failed to upsert price of ingredient type %d: %w", typeID, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) DeleteSize(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteSizeSQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "size", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("size", id)
	}
	return nil
}

// CreateProduct inserts the product, its base prices and its standard
// ingredients in one transaction.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p *models.Product, prices map[int64]decimal.Decimal, ingredientIDs []int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, database.InsertProductSQL, p.TenantID, p.CategoryID, p.Name).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", apperr.FromPg(err, "product", 0))
		}
		return writeProductDetails(ctx, tx, p.ID, prices, ingredientIDs)
	})
}

// UpdateProduct renames the product and replaces its prices and standard
// ingredients.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *models.Product, prices map[int64]decimal.Decimal, ingredientIDs []int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, database.RenameProductSQL, p.TenantID, p.ID, p.Name)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("product", p.ID)
		}
		if _, err := tx.Exec(ctx, database.DeleteProductPricesSQL, p.ID); err != nil {
			return fmt.Errorf("failed to clear product prices: %w", err)
		}
		if _, err := tx.Exec(ctx, database.DeleteProductIngredientsSQL, p.ID); err != nil {
			return fmt.Errorf("failed to clear product ingredients: %w", err)
		}
		return writeProductDetails(ctx, tx, p.ID, prices, ingredientIDs)
	})
}

func writeProductDetails(ctx context.Context, tx pgx.Tx, productID int64, prices map[int64]decimal.Decimal, ingredientIDs []int64) error {
	for sizeID, price := range prices {
		if _, err := tx.Exec(ctx, database.UpsertProductPriceSQL, productID, sizeID, price); err != nil {
			return fmt.Errorf("failed to insert price for size %d: %w", sizeID, err)
		}
	}
	for _, ingredientID := range ingredientIDs {
		if _, err := tx.Exec(ctx, database.InsertProductIngredientSQL, productID, ingredientID); err != nil {
			return fmt.Errorf("failed to insert ingredient %d: %w", ingredientID, err)
		}
	}
	return nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context, tenantID int64) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, database.ListProductsByTenantSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *PostgresRepository) GetProduct(ctx context.Context, tenantID, id int64) (*models.Product, error) {
	rows, err := r.db.Query(ctx, database.GetProductSQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		return nil, apperr.FromPg(err, "product", id)
	}
	return &p, nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteProductSQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "product", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

func (r *PostgresRepository) ListPrices(ctx context.Context, tenantID int64) ([]models.ProductPrice, error) {
	rows, err := r.db.Query(ctx, database.ListProductPricesByTenantSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product prices: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProductPrice, error) {
		var p models.ProductPrice
		err := row.Scan(&p.ProductID, &p.SizeID, &p.BasePrice)
		return p, err
	})
}

// GetPrice returns the base price of a product in a size; ok is false when no
// price is configured.
func (r *PostgresRepository) GetPrice(ctx context.Context, productID, sizeID int64) (decimal.Decimal, bool, error) {
	var price decimal.Decimal
	err := r.db.QueryRow(ctx, database.GetProductPriceSQL, productID, sizeID).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get product price: %w", err)
	}
	return price, true, nil
}

func scanCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt)
	return c, err
}

func scanSize(row pgx.CollectableRow) (models.Size, error) {
	var s models.Size
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt)
	return s, err
}

func scanProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.CategoryID, &p.Name, &p.CreatedAt)
	return p, err
}
