package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
)

type Repository interface {
	CreateTenant(ctx context.Context, t *models.Tenant) error
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	GetTenant(ctx context.Context, id int64) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, t *models.Tenant) error
	DeleteTenant(ctx context.Context, id int64) error

	CreateEmployee(ctx context.Context, e *models.Employee) error
	ListEmployees(ctx context.Context, tenantID int64) ([]models.Employee, error)
	GetEmployee(ctx context.Context, tenantID, id int64) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, e *models.Employee, passwordHash string) error
	DeleteEmployee(ctx context.Context, tenantID, id int64) error

	CreatePosition(ctx context.Context, p *models.Position) error
	ListPositions(ctx context.Context, tenantID int64) ([]models.Position, error)
	CountAssignments(ctx context.Context, tenantID, positionID int64) (int, error)
	DeletePosition(ctx context.Context, tenantID, id int64) error
	AssignPosition(ctx context.Context, tenantID, employeeID, positionID int64) error
	UnassignPosition(ctx context.Context, tenantID, employeeID, positionID int64) error
}

type PostgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTenant(ctx context.Context, t *models.Tenant) error {
	err := r.db.QueryRow(ctx, database.InsertTenantSQL, t.Name, t.Street, t.City, t.Phone, t.Email).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	rows, err := r.db.Query(ctx, database.ListTenantsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return pgx.CollectRows(rows, scanTenant)
}

func (r *PostgresRepository) GetTenant(ctx context.Context, id int64) (*models.Tenant, error) {
	rows, err := r.db.Query(ctx, database.GetTenantSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTenant)
	if err != nil {
		return nil, apperr.FromPg(err, "tenant", id)
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTenant(ctx context.Context, t *models.Tenant) error {
	tag, err := r.db.Exec(ctx, database.UpdateTenantSQL, t.ID, t.Name, t.Street, t.City, t.Phone, t.Email)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("tenant", t.ID)
	}
	return nil
}

// DeleteTenant removes the tenant's employees and then the tenant. Any other
// row still referencing the tenant aborts the whole delete.
func (r *PostgresRepository) DeleteTenant(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, database.DeleteTenantEmployeesSQL, id); err != nil {
			return apperr.FromPg(err, "tenant", id)
		}
		tag, err := tx.Exec(ctx, database.DeleteTenantSQL, id)
		if err != nil {
			return apperr.FromPg(err, "tenant", id)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("tenant", id)
		}
		return nil
	})
}

func (r *PostgresRepository) CreateEmployee(ctx context.Context, e *models.Employee) error {
	err := r.db.QueryRow(ctx, database.InsertEmployeeSQL,
		e.TenantID, e.FullName, e.Phone, e.Email, e.Login, e.PasswordHash, e.Role,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", loginTaken(err))
	}
	return nil
}

func (r *PostgresRepository) ListEmployees(ctx context.Context, tenantID int64) ([]models.Employee, error) {
	rows, err := r.db.Query(ctx, database.ListEmployeesSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return pgx.CollectRows(rows, ScanEmployee)
}

func (r *PostgresRepository) GetEmployee(ctx context.Context, tenantID, id int64) (*models.Employee, error) {
	rows, err := r.db.Query(ctx, database.GetEmployeeSQL, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, ScanEmployee)
	if err != nil {
		return nil, apperr.FromPg(err, "employee", id)
	}
	return &e, nil
}

// UpdateEmployee stores the profile and, when passwordHash is not empty, the
// new password in one transaction.
func (r *PostgresRepository) UpdateEmployee(ctx context.Context, e *models.Employee, passwordHash string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, database.UpdateEmployeeSQL,
			e.TenantID, e.ID, e.FullName, e.Phone, e.Email, e.Login, e.Role)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", loginTaken(err))
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("employee", e.ID)
		}
		if passwordHash == "" {
			return nil
		}
		if _, err := tx.Exec(ctx, database.UpdateEmployeePasswordSQL, e.TenantID, e.ID, passwordHash); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) DeleteEmployee(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteEmployeeSQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "employee", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("employee", id)
	}
	return nil
}

func (r *PostgresRepository) CreatePosition(ctx context.Context, p *models.Position) error {
	err := r.db.QueryRow(ctx, database.InsertPositionSQL, p.TenantID, p.Name, p.HourlyRate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", apperr.FromPg(err, "position", 0))
	}
	return nil
}

func (r *PostgresRepository) ListPositions(ctx context.Context, tenantID int64) ([]models.Position, error) {
	rows, err := r.db.Query(ctx, database.ListPositionsSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Position, error) {
		var p models.Position
		err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.HourlyRate, &p.Assigned, &p.CreatedAt)
		return p, err
	})
}

func (r *PostgresRepository) CountAssignments(ctx context.Context, tenantID, positionID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, database.CountPositionAssignmentsSQL, tenantID, positionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeletePosition(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeletePositionSQL, tenantID, id)
	if err != nil {
		return apperr.FromPg(err, "position", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("position", id)
	}
	return nil
}

// AssignPosition is idempotent; an employee or position outside the tenant
// is reported as not found.
func (r *PostgresRepository) AssignPosition(ctx context.Context, tenantID, employeeID, positionID int64) error {
	if _, err := r.db.Exec(ctx, database.AssignPositionSQL, tenantID, employeeID, positionID); err != nil {
		return fmt.Errorf("failed to assign position: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UnassignPosition(ctx context.Context, tenantID, employeeID, positionID int64) error {
	tag, err := r.db.Exec(ctx, database.UnassignPositionSQL, tenantID, employeeID, positionID)
	if err != nil {
		return fmt.Errorf("failed to unassign position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("position assignment", positionID)
	}
	return nil
}

func scanTenant(row pgx.CollectableRow) (models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Street, &t.City, &t.Phone, &t.Email, &t.CreatedAt)
	return t, err
}

// ScanEmployee reads the employee columns shared by every employee query,
// password hash included.
func ScanEmployee(row pgx.CollectableRow) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.TenantID, &e.FullName, &e.Phone, &e.Email, &e.Login, &e.PasswordHash, &e.Role, &e.CreatedAt)
	return e, err
}

func loginTaken(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Invalid("login", "is already taken")
	}
	return apperr.FromPg(err, "employee", 0)
}
