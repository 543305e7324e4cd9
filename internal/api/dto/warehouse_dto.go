package dto

import (
	"time"

	"github.com/spec-kit/erp-service/internal/domain"
)

type WarehouseRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsActive *bool  `json:"is_active"`
}

type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewWarehouseResponse(w *domain.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Location:  w.Location,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type StockLevelResponse struct {
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewStockLevelResponse(l domain.StockLevel) StockLevelResponse {
	return StockLevelResponse{WarehouseID: l.WarehouseID, ProductID: l.ProductID, Quantity: l.Quantity, UpdatedAt: l.UpdatedAt}
}

// MovementRequest records a stock movement.
type MovementRequest struct {
	ProductID         string  `json:"product_id"`
	MovementType      string  `json:"movement_type"`
	SourceWarehouseID *string `json:"source_warehouse_id"`
	TargetWarehouseID *string `json:"target_warehouse_id"`
	Quantity          int     `json:"quantity"`
	Reference         string  `json:"reference"`
	Note              string  `json:"note"`
}

type MovementResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	MovementType      string    `json:"movement_type"`
	SourceWarehouseID *string   `json:"source_warehouse_id"`
	TargetWarehouseID *string   `json:"target_warehouse_id"`
	Quantity          int       `json:"quantity"`
	Reference         string    `json:"reference"`
	Note              string    `json:"note"`
	CreatedBy         *string   `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewMovementResponse(m *domain.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		MovementType:      string(m.MovementType),
		SourceWarehouseID: m.SourceWarehouseID,
		TargetWarehouseID: m.TargetWarehouseID,
		Quantity:          m.Quantity,
		Reference:         m.Reference,
		Note:              m.Note,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
	}
}
