package service

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// WarehouseService manages warehouses and stock movements.
type WarehouseService struct {
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	stock      repository.StockRepository
	ledger     stockLedger
}

// WarehouseDependencies bundles repositories for the warehouse service.
type WarehouseDependencies struct {
	WarehouseRepo repository.WarehouseRepository
	ProductRepo   repository.ProductRepository
	StockRepo     repository.StockRepository
	Dispatcher    events.Dispatcher
	Clock         clockwork.Clock
}

// WarehouseInput describes warehouse create/update payloads.
type WarehouseInput struct {
	Code     string
	Name     string
	Location string
	IsActive *bool
}

// MovementInput describes a manual stock movement.
type MovementInput struct {
	ProductID         string
	MovementType      domain.MovementType
	SourceWarehouseID *string
	TargetWarehouseID *string
	Quantity          int
	Reference         string
	Note              string
}

// NewWarehouseService constructs the service.
func NewWarehouseService(deps WarehouseDependencies) *WarehouseService {
	return &WarehouseService{
		warehouses: deps.WarehouseRepo,
		products:   deps.ProductRepo,
		stock:      deps.StockRepo,
		ledger: stockLedger{
			stock:    deps.StockRepo,
			products: deps.ProductRepo,
			events:   newEmitter(deps.Dispatcher, deps.Clock),
		},
	}
}

// ListWarehouses lists warehouses.
func (s *WarehouseService) ListWarehouses(ctx context.Context, includeInactive bool) ([]domain.Warehouse, error) {
	return s.warehouses.List(ctx, includeInactive)
}

// GetWarehouse loads one warehouse.
func (s *WarehouseService) GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	wh, err := s.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "warehouse")
	}
	return wh, nil
}

// CreateWarehouse adds a warehouse.
func (s *WarehouseService) CreateWarehouse(ctx context.Context, input WarehouseInput) (*domain.Warehouse, error) {
	if err := required(map[string]string{"code": input.Code, "name": input.Name}); err != nil {
		return nil, err
	}
	wh := &domain.Warehouse{
		Code:     strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
		IsActive: true,
	}
	if input.IsActive != nil {
		wh.IsActive = *input.IsActive
	}
	if err := s.warehouses.Create(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// UpdateWarehouse applies provided fields.
func (s *WarehouseService) UpdateWarehouse(ctx context.Context, id string, input WarehouseInput) (*domain.Warehouse, error) {
	wh, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if code := strings.TrimSpace(input.Code); code != "" {
		wh.Code = strings.ToUpper(code)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		wh.Name = name
	}
	if input.Location != "" {
		wh.Location = strings.TrimSpace(input.Location)
	}
	if input.IsActive != nil {
		wh.IsActive = *input.IsActive
	}
	if err := s.warehouses.Update(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// Stock lists non-zero stock levels held in a warehouse.
func (s *WarehouseService) Stock(ctx context.Context, warehouseID string) ([]domain.StockLevel, error) {
	if _, err := s.GetWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.warehouses.Stock(ctx, warehouseID)
}

// ListMovements lists stock movements.
func (s *WarehouseService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]domain.StockMovement, error) {
	return s.stock.ListMovements(ctx, filter)
}

// RecordMovement validates and applies a manual movement.
func (s *WarehouseService) RecordMovement(ctx context.Context, actor Actor, input MovementInput) (*domain.StockMovement, error) {
	movement, err := s.validateMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.apply(ctx, actor, []*domain.StockMovement{movement}); err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *WarehouseService) validateMovement(ctx context.Context, input MovementInput) (*domain.StockMovement, error) {
	if !input.MovementType.Valid() {
		return nil, apperrors.NewValidationError("invalid movement type", map[string]any{"movement_type": input.MovementType})
	}
	source := optionalID(input.SourceWarehouseID)
	target := optionalID(input.TargetWarehouseID)

	switch input.MovementType {
	case domain.MovementIn:
		if target == nil {
			return nil, apperrors.NewValidationError("IN movements require target_warehouse_id", nil)
		}
		source = nil
	case domain.MovementOut:
		if source == nil {
			return nil, apperrors.NewValidationError("OUT movements require source_warehouse_id", nil)
		}
		target = nil
	case domain.MovementTransfer:
		if source == nil || target == nil {
			return nil, apperrors.NewValidationError("TRANSFER movements require source and target warehouses", nil)
		}
		if *source == *target {
			return nil, apperrors.NewValidationError("source and target warehouses must differ", nil)
		}
	case domain.MovementAdjustment:
		if target == nil {
			return nil, apperrors.NewValidationError("ADJUSTMENT movements require target_warehouse_id", nil)
		}
		source = nil
	}

	if input.MovementType == domain.MovementAdjustment {
		if input.Quantity == 0 {
			return nil, apperrors.NewValidationError("adjustment quantity must not be zero", nil)
		}
	} else if input.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}

	product, err := s.products.GetByID(ctx, strings.TrimSpace(input.ProductID))
	if err != nil {
		return nil, notFound(err, "product")
	}
	for _, id := range []*string{source, target} {
		if id == nil {
			continue
		}
		wh, err := s.GetWarehouse(ctx, *id)
		if err != nil {
			return nil, err
		}
		if !wh.IsActive {
			return nil, apperrors.NewInvalidState("warehouse is inactive", map[string]any{"warehouse_id": wh.ID})
		}
	}

	return &domain.StockMovement{
		ProductID:         product.ID,
		MovementType:      input.MovementType,
		SourceWarehouseID: source,
		TargetWarehouseID: target,
		Quantity:          input.Quantity,
		Reference:         strings.TrimSpace(input.Reference),
		Note:              strings.TrimSpace(input.Note),
	}, nil
}
