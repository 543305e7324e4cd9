package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock keeping unit.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Category     string
	UnitPrice    decimal.Decimal
	ReorderLevel int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductStock pairs a product with its quantity across all warehouses.
type ProductStock struct {
	Product
	OnHand int
}
