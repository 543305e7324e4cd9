package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// SalesService manages customer sales.
type SalesService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	ledger     stockLedger
	events     emitter
	clock      clockwork.Clock
}

// SalesDependencies bundles repositories for the sales service.
type SalesDependencies struct {
	SaleRepo      repository.SaleRepository
	ProductRepo   repository.ProductRepository
	WarehouseRepo repository.WarehouseRepository
	StockRepo     repository.StockRepository
	Dispatcher    events.Dispatcher
	Clock         clockwork.Clock
}

// SaleItemInput describes one requested line. A nil UnitPrice uses the product price.
type SaleItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// SaleInput describes a new sale.
type SaleInput struct {
	Reference    string
	CustomerName string
	WarehouseID  *string
	SoldAt       time.Time
	Items        []SaleItemInput
}

// NewSalesService constructs the service.
func NewSalesService(deps SalesDependencies) *SalesService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	em := newEmitter(deps.Dispatcher, clock)
	return &SalesService{
		sales:      deps.SaleRepo,
		products:   deps.ProductRepo,
		warehouses: deps.WarehouseRepo,
		ledger:     stockLedger{stock: deps.StockRepo, products: deps.ProductRepo, events: em},
		events:     em,
		clock:      clock,
	}
}

// ListSales lists sales.
func (s *SalesService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]domain.Sale, error) {
	return s.sales.List(ctx, filter)
}

// GetSale loads one sale with its lines.
func (s *SalesService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sale")
	}
	return sale, nil
}

// CreateSale stores a DRAFT sale with server-computed totals.
func (s *SalesService) CreateSale(ctx context.Context, actor Actor, input SaleInput) (*domain.Sale, error) {
	if err := required(map[string]string{"customer_name": input.CustomerName}); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("a sale needs at least one item", nil)
	}

	now := s.clock.Now().UTC()
	sale := &domain.Sale{
		Reference:    strings.TrimSpace(input.Reference),
		CustomerName: strings.TrimSpace(input.CustomerName),
		SoldAt:       input.SoldAt,
		Status:       domain.SaleStatusDraft,
		CreatedBy:    actor.userRef(),
	}
	if sale.Reference == "" {
		sale.Reference = newReference("SO", now)
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = now
	}
	if id := optionalID(input.WarehouseID); id != nil {
		if _, err := s.activeWarehouse(ctx, *id); err != nil {
			return nil, err
		}
		sale.WarehouseID = id
	}

	for i, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item quantity must be positive", map[string]any{"index": i})
		}
		product, err := s.products.GetByID(ctx, strings.TrimSpace(in.ProductID))
		if err != nil {
			return nil, notFound(err, "product")
		}
		if !product.IsActive {
			return nil, apperrors.NewInvalidState("product is inactive", map[string]any{"product_id": product.ID})
		}
		price := product.UnitPrice
		if in.UnitPrice != nil {
			if in.UnitPrice.IsNegative() {
				return nil, apperrors.NewValidationError("unit_price must not be negative", map[string]any{"index": i})
			}
			price = in.UnitPrice.Round(2)
		}
		sale.Items = append(sale.Items, domain.SaleItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitPrice: price,
		})
	}
	sale.Recalculate()

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// ConfirmSale confirms a DRAFT sale and issues OUT movements from warehouseID,
// falling back to the warehouse recorded on the sale.
func (s *SalesService) ConfirmSale(ctx context.Context, actor Actor, id string, warehouseID *string) (*domain.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != domain.SaleStatusDraft {
		return nil, apperrors.NewInvalidState("only draft sales can be confirmed", map[string]any{"status": sale.Status})
	}
	source := optionalID(warehouseID)
	if source == nil {
		source = sale.WarehouseID
	}
	if source == nil {
		return nil, apperrors.NewValidationError("warehouse_id is required to confirm a sale", nil)
	}
	if _, err := s.activeWarehouse(ctx, *source); err != nil {
		return nil, err
	}

	if err := s.sales.Confirm(ctx, sale.ID, *source); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidState("sale changed concurrently", nil)
		}
		return nil, err
	}

	movements := make([]*domain.StockMovement, 0, len(sale.Items))
	for _, item := range sale.Items {
		wh := *source
		movements = append(movements, &domain.StockMovement{
			ProductID:         item.ProductID,
			MovementType:      domain.MovementOut,
			SourceWarehouseID: &wh,
			Quantity:          item.Quantity,
			Reference:         sale.Reference,
			Note:              "sale confirmed",
		})
	}
	if err := s.ledger.apply(ctx, actor, movements); err != nil {
		if revertErr := s.sales.RevertConfirm(ctx, sale.ID, sale.WarehouseID); revertErr != nil {
			return nil, fmt.Errorf("revert sale %s after stock failure: %w", sale.ID, errors.Join(err, revertErr))
		}
		return nil, err
	}

	sale.Status = domain.SaleStatusConfirmed
	sale.WarehouseID = source
	s.events.emit(ctx, events.EventSaleConfirmed, sale.ID, actor, salePayload(sale))
	return sale, nil
}

// CancelSale cancels a DRAFT or CONFIRMED sale. Stock of a confirmed sale is returned
// to the warehouse it left from.
func (s *SalesService) CancelSale(ctx context.Context, actor Actor, id string) (*domain.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	from := sale.Status
	if from != domain.SaleStatusDraft && from != domain.SaleStatusConfirmed {
		return nil, apperrors.NewInvalidState("sale cannot be cancelled", map[string]any{"status": sale.Status})
	}
	if err := s.transition(ctx, sale.ID, from, domain.SaleStatusCancelled); err != nil {
		return nil, err
	}

	if from == domain.SaleStatusConfirmed && sale.WarehouseID != nil {
		movements := make([]*domain.StockMovement, 0, len(sale.Items))
		for _, item := range sale.Items {
			wh := *sale.WarehouseID
			movements = append(movements, &domain.StockMovement{
				ProductID:         item.ProductID,
				MovementType:      domain.MovementIn,
				TargetWarehouseID: &wh,
				Quantity:          item.Quantity,
				Reference:         sale.Reference,
				Note:              "sale cancelled",
			})
		}
		if err := s.ledger.apply(ctx, actor, movements); err != nil {
			if revertErr := s.sales.TransitionStatus(ctx, sale.ID, domain.SaleStatusCancelled, from); revertErr != nil {
				return nil, fmt.Errorf("revert sale %s after stock failure: %w", sale.ID, errors.Join(err, revertErr))
			}
			return nil, err
		}
	}

	sale.Status = domain.SaleStatusCancelled
	s.events.emit(ctx, events.EventSaleCancelled, sale.ID, actor, salePayload(sale))
	return sale, nil
}

func (s *SalesService) transition(ctx context.Context, id string, from, to domain.SaleStatus) error {
	err := s.sales.TransitionStatus(ctx, id, from, to)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewInvalidState("sale changed concurrently", nil)
	}
	return err
}

func (s *SalesService) activeWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	wh, err := s.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "warehouse")
	}
	if !wh.IsActive {
		return nil, apperrors.NewInvalidState("warehouse is inactive", map[string]any{"warehouse_id": wh.ID})
	}
	return wh, nil
}

func salePayload(sale *domain.Sale) events.SalePayload {
	return events.SalePayload{
		Reference: sale.Reference,
		Status:    sale.Status,
		Total:     sale.Total.StringFixed(2),
	}
}

// newReference builds a human readable document number such as SO-20240304-1A2B3C.
func newReference(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), suffix)
}
