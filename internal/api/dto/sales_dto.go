package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
)

type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// SaleRequest creates a DRAFT sale.
type SaleRequest struct {
	Reference    string            `json:"reference"`
	CustomerName string            `json:"customer_name"`
	WarehouseID  *string           `json:"warehouse_id"`
	SoldAt       *time.Time        `json:"sold_at"`
	Items        []SaleItemRequest `json:"items"`
}

// ConfirmSaleRequest optionally overrides the warehouse stock is taken from.
type ConfirmSaleRequest struct {
	WarehouseID *string `json:"warehouse_id"`
}

type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	Reference    string             `json:"reference"`
	CustomerName string             `json:"customer_name"`
	WarehouseID  *string            `json:"warehouse_id"`
	SoldAt       time.Time          `json:"sold_at"`
	Status       string             `json:"status"`
	Items        []SaleItemResponse `json:"items"`
	Total        decimal.Decimal    `json:"total"`
	CreatedBy    *string            `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return SaleResponse{
		ID:           s.ID,
		Reference:    s.Reference,
		CustomerName: s.CustomerName,
		WarehouseID:  s.WarehouseID,
		SoldAt:       s.SoldAt,
		Status:       string(s.Status),
		Items:        items,
		Total:        s.Total,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
