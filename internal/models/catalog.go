package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products and defines the sizes they are sold in.
type Category struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Size is a pricing dimension of exactly one category.
type Size struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

type Product struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductPrice is the base price of a product in one size.
type ProductPrice struct {
	ProductID int64           `json:"product_id"`
	SizeID    int64           `json:"size_id"`
	BasePrice decimal.Decimal `json:"base_price"`
}

type IngredientType struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Ingredient struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	TypeID    int64     `json:"type_id"`
	TypeName  string    `json:"type_name,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// IngredientTypePrice is the surcharge for adding an ingredient of a type to a
// product of a size.
type IngredientTypePrice struct {
	TypeID   int64           `json:"type_id"`
	TypeName string          `json:"type_name,omitempty"`
	SizeID   int64           `json:"size_id"`
	Price    decimal.Decimal `json:"price"`
}
