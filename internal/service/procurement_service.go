package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// ProcurementService manages purchase orders.
type ProcurementService struct {
	orders     repository.PurchaseOrderRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	ledger     stockLedger
	events     emitter
	clock      clockwork.Clock
}

// ProcurementDependencies bundles repositories for the procurement service.
type ProcurementDependencies struct {
	PurchaseOrderRepo repository.PurchaseOrderRepository
	ProductRepo       repository.ProductRepository
	WarehouseRepo     repository.WarehouseRepository
	StockRepo         repository.StockRepository
	Dispatcher        events.Dispatcher
	Clock             clockwork.Clock
}

// PurchaseOrderItemInput describes one PO line.
type PurchaseOrderItemInput struct {
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
}

// PurchaseOrderInput describes a new purchase order.
type PurchaseOrderInput struct {
	PONumber     string
	SupplierName string
	WarehouseID  string
	ExpectedAt   *time.Time
	Items        []PurchaseOrderItemInput
}

// NewProcurementService constructs the service.
func NewProcurementService(deps ProcurementDependencies) *ProcurementService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	em := newEmitter(deps.Dispatcher, clock)
	return &ProcurementService{
		orders:     deps.PurchaseOrderRepo,
		products:   deps.ProductRepo,
		warehouses: deps.WarehouseRepo,
		ledger:     stockLedger{stock: deps.StockRepo, products: deps.ProductRepo, events: em},
		events:     em,
		clock:      clock,
	}
}

// ListPurchaseOrders lists purchase orders.
func (s *ProcurementService) ListPurchaseOrders(ctx context.Context, filter repository.PurchaseOrderFilter) ([]domain.PurchaseOrder, error) {
	return s.orders.List(ctx, filter)
}

// GetPurchaseOrder loads one purchase order with its lines.
func (s *ProcurementService) GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	po, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "purchase order")
	}
	return po, nil
}

// CreatePurchaseOrder stores a DRAFT purchase order.
func (s *ProcurementService) CreatePurchaseOrder(ctx context.Context, actor Actor, input PurchaseOrderInput) (*domain.PurchaseOrder, error) {
	if err := required(map[string]string{"supplier_name": input.SupplierName, "warehouse_id": input.WarehouseID}); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("a purchase order needs at least one item", nil)
	}
	wh, err := s.warehouses.GetByID(ctx, strings.TrimSpace(input.WarehouseID))
	if err != nil {
		return nil, notFound(err, "warehouse")
	}
	if !wh.IsActive {
		return nil, apperrors.NewInvalidState("warehouse is inactive", map[string]any{"warehouse_id": wh.ID})
	}

	po := &domain.PurchaseOrder{
		PONumber:     strings.TrimSpace(input.PONumber),
		SupplierName: strings.TrimSpace(input.SupplierName),
		WarehouseID:  wh.ID,
		Status:       domain.POStatusDraft,
		ExpectedAt:   input.ExpectedAt,
		CreatedBy:    actor.userRef(),
	}
	if po.PONumber == "" {
		po.PONumber = newReference("PO", s.clock.Now().UTC())
	}
	for i, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item quantity must be positive", map[string]any{"index": i})
		}
		if in.UnitCost.IsNegative() {
			return nil, apperrors.NewValidationError("unit_cost must not be negative", map[string]any{"index": i})
		}
		product, err := s.products.GetByID(ctx, strings.TrimSpace(in.ProductID))
		if err != nil {
			return nil, notFound(err, "product")
		}
		po.Items = append(po.Items, domain.PurchaseOrderItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost.Round(2),
		})
	}
	po.Recalculate()

	if err := s.orders.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Submit moves a DRAFT order to SUBMITTED.
func (s *ProcurementService) Submit(ctx context.Context, actor Actor, id string) (*domain.PurchaseOrder, error) {
	return s.advance(ctx, actor, id, domain.POStatusSubmitted)
}

// Approve moves a SUBMITTED order to APPROVED.
func (s *ProcurementService) Approve(ctx context.Context, actor Actor, id string) (*domain.PurchaseOrder, error) {
	return s.advance(ctx, actor, id, domain.POStatusApproved)
}

// Cancel cancels an order that has not been received.
func (s *ProcurementService) Cancel(ctx context.Context, actor Actor, id string) (*domain.PurchaseOrder, error) {
	return s.advance(ctx, actor, id, domain.POStatusCancelled)
}

// Receive marks an APPROVED order RECEIVED and books IN movements into its warehouse.
func (s *ProcurementService) Receive(ctx context.Context, actor Actor, id string) (*domain.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := po.Status
	if !from.CanTransition(domain.POStatusReceived) {
		return nil, invalidPOTransition(from, domain.POStatusReceived)
	}
	if err := s.transition(ctx, po.ID, from, domain.POStatusReceived); err != nil {
		return nil, err
	}

	movements := make([]*domain.StockMovement, 0, len(po.Items))
	for _, item := range po.Items {
		wh := po.WarehouseID
		movements = append(movements, &domain.StockMovement{
			ProductID:         item.ProductID,
			MovementType:      domain.MovementIn,
			TargetWarehouseID: &wh,
			Quantity:          item.Quantity,
			Reference:         po.PONumber,
			Note:              "purchase order received",
		})
	}
	if err := s.ledger.apply(ctx, actor, movements); err != nil {
		if revertErr := s.orders.TransitionStatus(ctx, po.ID, domain.POStatusReceived, from); revertErr != nil {
			return nil, fmt.Errorf("revert purchase order %s after stock failure: %w", po.ID, errors.Join(err, revertErr))
		}
		return nil, err
	}

	po.Status = domain.POStatusReceived
	s.emitStatus(ctx, actor, po, from)
	return po, nil
}

func (s *ProcurementService) advance(ctx context.Context, actor Actor, id string, to domain.PurchaseOrderStatus) (*domain.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := po.Status
	if !from.CanTransition(to) {
		return nil, invalidPOTransition(from, to)
	}
	if err := s.transition(ctx, po.ID, from, to); err != nil {
		return nil, err
	}
	po.Status = to
	s.emitStatus(ctx, actor, po, from)
	return po, nil
}

func (s *ProcurementService) transition(ctx context.Context, id string, from, to domain.PurchaseOrderStatus) error {
	err := s.orders.TransitionStatus(ctx, id, from, to)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewInvalidState("purchase order changed concurrently", nil)
	}
	return err
}

func (s *ProcurementService) emitStatus(ctx context.Context, actor Actor, po *domain.PurchaseOrder, from domain.PurchaseOrderStatus) {
	s.events.emit(ctx, events.EventPurchaseOrderStatus, po.ID, actor, events.PurchaseOrderStatusPayload{
		PONumber:  po.PONumber,
		OldStatus: from,
		NewStatus: po.Status,
	})
}

func invalidPOTransition(from, to domain.PurchaseOrderStatus) error {
	return apperrors.NewInvalidState(
		fmt.Sprintf("purchase order cannot move from %s to %s", from, to),
		map[string]any{"status": from},
	)
}
