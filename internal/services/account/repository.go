package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/services/tenant"
)

// Repository finds sign-in candidates. Lookups return nil, nil when the login
// is unknown.
type Repository interface {
	FindSuperadmin(ctx context.Context, login string) (*models.Superadmin, error)
	FindEmployee(ctx context.Context, login string) (*models.Employee, error)
	SaveSuperadmin(ctx context.Context, login, passwordHash string) (int64, error)
}

type PostgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindSuperadmin(ctx context.Context, login string) (*models.Superadmin, error) {
	var s models.Superadmin
	err := r.db.QueryRow(ctx, database.GetSuperadminByLoginSQL, login).Scan(&s.ID, &s.Login, &s.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up superadmin: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) FindEmployee(ctx context.Context, login string) (*models.Employee, error) {
	rows, err := r.db.Query(ctx, database.GetEmployeeByLoginSQL, login)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, tenant.ScanEmployee)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}
	return &e, nil
}

// SaveSuperadmin creates the superadmin or replaces its password.
func (r *PostgresRepository) SaveSuperadmin(ctx context.Context, login, passwordHash string) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, database.UpsertSuperadminSQL, login, passwordHash).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to save superadmin: %w", err)
	}
	return id, nil
}
