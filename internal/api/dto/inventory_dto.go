package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
)

// ProductRequest creates or updates a product. Omitted pointer fields are left unchanged.
type ProductRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ReorderLevel *int             `json:"reorder_level"`
	IsActive     *bool            `json:"is_active"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int             `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	OnHand       *int            `json:"on_hand,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		UnitPrice:    p.UnitPrice,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewProductStockResponse includes the quantity on hand across warehouses.
func NewProductStockResponse(p *domain.ProductStock) ProductResponse {
	resp := NewProductResponse(&p.Product)
	onHand := p.OnHand
	resp.OnHand = &onHand
	return resp
}
