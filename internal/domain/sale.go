package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus enumerates sale lifecycle states.
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "DRAFT"
	SaleStatusConfirmed SaleStatus = "CONFIRMED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// SaleItem is one line of a sale.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Sale is a customer order.
type Sale struct {
	ID           string
	Reference    string
	CustomerName string
	WarehouseID  *string
	SoldAt       time.Time
	Status       SaleStatus
	Items        []SaleItem
	Total        decimal.Decimal
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Recalculate fills line totals and the sale total.
func (s *Sale) Recalculate() {
	total := decimal.Zero
	for i := range s.Items {
		item := &s.Items[i]
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.LineTotal)
	}
	s.Total = total
}
