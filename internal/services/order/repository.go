package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
)

// Store persists orders.
type Store interface {
	// Create numbers and writes an order with its lines and modifications
	// as one unit.
	Create(ctx context.Context, o models.NewOrder, day time.Time) (*models.Order, error)
	List(ctx context.Context, tenantID int64, statuses []models.OrderStatus, limit int) ([]models.Order, error)
	Get(ctx context.Context, tenantID, id int64) (*models.Order, error)
	// UpdateStatus moves the order from one status to another and records the
	// change; it fails if the order is no longer in from.
	UpdateStatus(ctx context.Context, tenantID, id int64, from, to models.OrderStatus, changedBy string) error
	UpdatePayment(ctx context.Context, tenantID, id int64, method models.PaymentMethod, status models.PaymentStatus) error
}

type PostgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o models.NewOrder, day time.Time) (*models.Order, error) {
	order := &models.Order{
		TenantID:     o.TenantID,
		EmployeeID:   o.EmployeeID,
		CreatedBy:    o.CreatedBy,
		OrderDetails: o.Details,
		Status:       models.StatusNew,
		TotalAmount:  o.Total,
		Lines:        make([]models.OrderLine, len(o.Lines)),
	}
	for i, l := range o.Lines {
		l.Removed = append([]models.Modification{}, l.Removed...)
		l.Added = append([]models.Modification{}, l.Added...)
		order.Lines[i] = l
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var seq int
		if err := tx.QueryRow(ctx, database.NextOrderSequenceSQL, o.TenantID, day).Scan(&seq); err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}
		order.Number = models.FormatOrderNumber(day, seq)

		d := o.Details
		err := tx.QueryRow(ctx, database.InsertOrderSQL,
			o.TenantID, o.EmployeeID, o.CreatedBy, order.Number,
			d.Kind, d.PaymentMethod, d.PaymentStatus,
			d.TableNumber, d.Address, d.Phone, d.Notes, d.ScheduledAt,
			o.Total, day,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", apperr.FromPg(err, "order", 0))
		}

		for i := range order.Lines {
			if err := insertLine(ctx, tx, order.ID, &order.Lines[i]); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, database.InsertStatusLogSQL, order.ID, models.StatusNew, o.CreatedBy); err != nil {
			return fmt.Errorf("failed to log order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func insertLine(ctx context.Context, tx pgx.Tx, orderID int64, line *models.OrderLine) error {
	err := tx.QueryRow(ctx, database.InsertOrderLineSQL,
		orderID, line.ProductID, line.SizeID, line.ProductName, line.SizeName,
		line.BasePrice, line.UnitPrice, line.Quantity,
	).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order line: %w", err)
	}

	mods := [][]models.Modification{line.Removed, line.Added}
	for _, group := range mods {
		for i := range group {
			m := &group[i]
			err := tx.QueryRow(ctx, database.InsertLineModificationSQL,
				line.ID, m.IngredientID, m.IngredientName, m.Action, m.Price,
			).Scan(&m.ID)
			if err != nil {
				return fmt.Errorf("failed to insert line modification: %w", err)
			}
		}
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, tenantID int64, statuses []models.OrderStatus, limit int) ([]models.Order, error) {
	filter := make([]string, len(statuses))
	for i, s := range statuses {
		filter[i] = string(s)
	}

	rows, err := r.db.Query(ctx, database.ListOrdersSQL, tenantID, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func (r *PostgresRepository) Get(ctx context.Context, tenantID, id int64) (*models.Order, error) {
	rows, err := r.db.Query(ctx, database.GetOrderSQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return nil, apperr.FromPg(err, "order", id)
	}

	rows, err = r.db.Query(ctx, database.ListOrderLinesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	order.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.OrderLine, error) {
		l := models.OrderLine{Removed: []models.Modification{}, Added: []models.Modification{}}
		err := row.Scan(&l.ID, &l.ProductID, &l.SizeID, &l.ProductName, &l.SizeName, &l.BasePrice, &l.UnitPrice, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}

	rows, err = r.db.Query(ctx, database.ListOrderModificationsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list line modifications: %w", err)
	}
	type lineMod struct {
		lineID int64
		mod    models.Modification
	}
	mods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (lineMod, error) {
		var lm lineMod
		err := row.Scan(&lm.mod.ID, &lm.lineID, &lm.mod.IngredientID, &lm.mod.IngredientName, &lm.mod.Action, &lm.mod.Price)
		return lm, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read line modifications: %w", err)
	}

	byLine := make(map[int64]*models.OrderLine, len(order.Lines))
	for i := range order.Lines {
		byLine[order.Lines[i].ID] = &order.Lines[i]
	}
	for _, lm := range mods {
		line, ok := byLine[lm.lineID]
		if !ok {
			continue
		}
		if lm.mod.Action == models.Added {
			line.Added = append(line.Added, lm.mod)
		} else {
			line.Removed = append(line.Removed, lm.mod)
		}
	}
	return &order, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, tenantID, id int64, from, to models.OrderStatus, changedBy string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, tenantID, id, from, to)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.Invalid("status", fmt.Sprintf("order is no longer %s", from))
		}
		if _, err := tx.Exec(ctx, database.InsertStatusLogSQL, id, to, changedBy); err != nil {
			return fmt.Errorf("failed to log order status: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) UpdatePayment(ctx context.Context, tenantID, id int64, method models.PaymentMethod, status models.PaymentStatus) error {
	tag, err := r.db.Exec(ctx, database.UpdateOrderPaymentSQL, tenantID, id, method, status)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order", id)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.TenantID, &o.EmployeeID, &o.CreatedBy, &o.Number,
		&o.Kind, &o.PaymentMethod, &o.PaymentStatus, &o.Status,
		&o.TableNumber, &o.Address, &o.Phone, &o.Notes, &o.ScheduledAt,
		&o.TotalAmount, &o.CreatedAt,
	)
	return o, err
}
