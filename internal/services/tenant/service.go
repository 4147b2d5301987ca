package tenant

import (
	"context"
	"fmt"
	"strings"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/models"
)

type Service struct {
	repo       Repository
	bcryptCost int
}

func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// TenantInput is the editable part of a tenant.
type TenantInput struct {
	Name   string
	Street string
	City   string
	Phone  string
	Email  string
}

// EmployeeInput is the editable part of an employee. An empty Password keeps
// the stored one on update.
type EmployeeInput struct {
	FullName string
	Phone    string
	Email    string
	Login    string
	Password string
	Role     models.Role
}

func (s *Service) CreateTenant(ctx context.Context, in TenantInput) (*models.Tenant, error) {
	t := &models.Tenant{}
	if err := applyTenant(t, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTenant(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return s.repo.ListTenants(ctx)
}

func (s *Service) GetTenant(ctx context.Context, id int64) (*models.Tenant, error) {
	return s.repo.GetTenant(ctx, id)
}

func (s *Service) UpdateTenant(ctx context.Context, id int64, in TenantInput) (*models.Tenant, error) {
	t, err := s.repo.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTenant(t, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTenant(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTenant removes a tenant together with its employees.
func (s *Service) DeleteTenant(ctx context.Context, id int64) error {
	return s.repo.DeleteTenant(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, tenantID int64, in EmployeeInput) (*models.Employee, error) {
	if _, err := s.repo.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, apperr.Invalid("password", "is required")
	}
	e := &models.Employee{TenantID: tenantID}
	if err := applyEmployee(e, in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	e.PasswordHash = hash
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context, tenantID int64) ([]models.Employee, error) {
	return s.repo.ListEmployees(ctx, tenantID)
}

func (s *Service) UpdateEmployee(ctx context.Context, tenantID, id int64, in EmployeeInput) (*models.Employee, error) {
	e, err := s.repo.GetEmployee(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applyEmployee(e, in); err != nil {
		return nil, err
	}

	var hash string
	if in.Password != "" {
		if hash, err = auth.HashPassword(in.Password, s.bcryptCost); err != nil {
			return nil, err
		}
		e.PasswordHash = hash
	}
	if err := s.repo.UpdateEmployee(ctx, e, hash); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, tenantID, id int64) error {
	return s.repo.DeleteEmployee(ctx, tenantID, id)
}

func (s *Service) CreatePosition(ctx context.Context, tenantID int64, name, rate string) (*models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	hourly, err := models.ParseRate("hourly_rate", rate)
	if err != nil {
		return nil, err
	}

	p := &models.Position{TenantID: tenantID, Name: name, HourlyRate: hourly}
	if err := s.repo.CreatePosition(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPositions(ctx context.Context, tenantID int64) ([]models.Position, error) {
	return s.repo.ListPositions(ctx, tenantID)
}

// DeletePosition removes a position nobody is assigned to.
func (s *Service) DeletePosition(ctx context.Context, tenantID, id int64) error {
	n, err := s.repo.CountAssignments(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.InUse("position", fmt.Sprintf("%d employee(s) are assigned to it", n))
	}
	return s.repo.DeletePosition(ctx, tenantID, id)
}

func (s *Service) AssignPosition(ctx context.Context, tenantID, employeeID, positionID int64) error {
	if _, err := s.repo.GetEmployee(ctx, tenantID, employeeID); err != nil {
		return err
	}
	positions, err := s.repo.ListPositions(ctx, tenantID)
	if err != nil {
		return err
	}
	for _, p := range positions {
		if p.ID == positionID {
			return s.repo.AssignPosition(ctx, tenantID, employeeID, positionID)
		}
	}
	return apperr.NotFound("position", positionID)
}

func (s *Service) UnassignPosition(ctx context.Context, tenantID, employeeID, positionID int64) error {
	return s.repo.UnassignPosition(ctx, tenantID, employeeID, positionID)
}

func applyTenant(t *models.Tenant, in TenantInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Invalid("name", "is required")
	}
	t.Name = name
	t.Street = strings.TrimSpace(in.Street)
	t.City = strings.TrimSpace(in.City)
	t.Phone = strings.TrimSpace(in.Phone)
	t.Email = strings.TrimSpace(in.Email)
	return nil
}

func applyEmployee(e *models.Employee, in EmployeeInput) error {
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return apperr.Invalid("full_name", "is required")
	}
	login := strings.TrimSpace(in.Login)
	if login == "" {
		return apperr.Invalid("login", "is required")
	}
	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if role != models.RoleAdmin && role != models.RoleEmployee {
		return apperr.Invalid("role", "must be one of: admin employee")
	}

	e.FullName = fullName
	e.Login = login
	e.Phone = strings.TrimSpace(in.Phone)
	e.Email = strings.TrimSpace(in.Email)
	e.Role = role
	return nil
}
