package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is a restaurant owning its own menu, staff and orders.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

type Employee struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Superadmin is a platform operator not bound to any tenant.
type Superadmin struct {
	ID           int64
	Login        string
	PasswordHash string
}

// Position is a job with an hourly rate that employees can be assigned to.
type Position struct {
	ID         int64           `json:"id"`
	TenantID   int64           `json:"tenant_id"`
	Name       string          `json:"name"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Assigned   int             `json:"assigned"`
	CreatedAt  time.Time       `json:"created_at"`
}
