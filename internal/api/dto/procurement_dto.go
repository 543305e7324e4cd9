package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
)

type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderRequest creates a DRAFT purchase order.
type PurchaseOrderRequest struct {
	PONumber     string                     `json:"po_number"`
	SupplierName string                     `json:"supplier_name"`
	WarehouseID  string                     `json:"warehouse_id"`
	ExpectedAt   *Date                      `json:"expected_at"`
	Items        []PurchaseOrderItemRequest `json:"items"`
}

type PurchaseOrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	PONumber     string                      `json:"po_number"`
	SupplierName string                      `json:"supplier_name"`
	WarehouseID  string                      `json:"warehouse_id"`
	Status       string                      `json:"status"`
	ExpectedAt   *Date                       `json:"expected_at"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	Total        decimal.Decimal             `json:"total"`
	CreatedBy    *string                     `json:"created_by"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func NewPurchaseOrderResponse(po *domain.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			LineTotal: it.LineTotal,
		})
	}
	return PurchaseOrderResponse{
		ID:           po.ID,
		PONumber:     po.PONumber,
		SupplierName: po.SupplierName,
		WarehouseID:  po.WarehouseID,
		Status:       string(po.Status),
		ExpectedAt:   DatePtr(po.ExpectedAt),
		Items:        items,
		Total:        po.Total,
		CreatedBy:    po.CreatedBy,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}
