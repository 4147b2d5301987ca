package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
)

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	Status    models.OrderStatus `json:"status"`
	ChangedBy string             `json:"changed_by"`
	ChangedAt time.Time          `json:"changed_at"`
}

type Repository interface {
	OrderExists(ctx context.Context, tenantID, orderID int64) (bool, error)
	ListHistory(ctx context.Context, tenantID, orderID int64) ([]StatusChange, error)
	Ping(ctx context.Context) error
}

type PostgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) OrderExists(ctx context.Context, tenantID, orderID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, database.OrderExistsSQL, tenantID, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up order: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListHistory(ctx context.Context, tenantID, orderID int64) ([]StatusChange, error) {
	rows, err := r.db.Query(ctx, database.ListStatusHistorySQL, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (StatusChange, error) {
		var c StatusChange
		err := row.Scan(&c.Status, &c.ChangedBy, &c.ChangedAt)
		return c, err
	})
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
