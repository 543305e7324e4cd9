package service

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// InventoryService manages the product catalogue.
type InventoryService struct {
	products repository.ProductRepository
	stock    repository.StockRepository
	events   emitter
}

// InventoryDependencies bundles repositories for the inventory service.
type InventoryDependencies struct {
	ProductRepo repository.ProductRepository
	StockRepo   repository.StockRepository
	Dispatcher  events.Dispatcher
	Clock       clockwork.Clock
}

// ProductInput describes product create/update payloads.
type ProductInput struct {
	SKU          string
	Name         string
	Category     string
	UnitPrice    *decimal.Decimal
	ReorderLevel *int
	IsActive     *bool
}

// NewInventoryService constructs the service.
func NewInventoryService(deps InventoryDependencies) *InventoryService {
	return &InventoryService{
		products: deps.ProductRepo,
		stock:    deps.StockRepo,
		events:   newEmitter(deps.Dispatcher, deps.Clock),
	}
}

// ListProducts lists products.
func (s *InventoryService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// GetProduct loads a product together with its total stock.
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*domain.ProductStock, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	onHand, err := s.stock.OnHand(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return &domain.ProductStock{Product: *product, OnHand: onHand}, nil
}

// LowStock lists products whose total stock is at or below the reorder level.
func (s *InventoryService) LowStock(ctx context.Context, page repository.Page) ([]domain.ProductStock, error) {
	return s.products.ListLowStock(ctx, page)
}

// CreateProduct adds a product. The SKU is stored upper-cased.
func (s *InventoryService) CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*domain.Product, error) {
	if err := required(map[string]string{"sku": input.SKU, "name": input.Name}); err != nil {
		return nil, err
	}
	product := &domain.Product{
		SKU:       normalizeSKU(input.SKU),
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		UnitPrice: decimal.Zero,
		IsActive:  true,
	}
	if err := applyProductNumbers(product, input); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventProductCreated, product.ID, actor, productPayload(product))
	return product, nil
}

// UpdateProduct applies provided fields.
func (s *InventoryService) UpdateProduct(ctx context.Context, actor Actor, id string, input ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if sku := normalizeSKU(input.SKU); sku != "" {
		product.SKU = sku
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.Category != "" {
		product.Category = strings.TrimSpace(input.Category)
	}
	if err := applyProductNumbers(product, input); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventProductUpdated, product.ID, actor, productPayload(product))
	return product, nil
}

func applyProductNumbers(product *domain.Product, input ProductInput) error {
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return apperrors.NewValidationError("unit_price must not be negative", nil)
		}
		product.UnitPrice = input.UnitPrice.Round(2)
	}
	if input.ReorderLevel != nil {
		if *input.ReorderLevel < 0 {
			return apperrors.NewValidationError("reorder_level must not be negative", nil)
		}
		product.ReorderLevel = *input.ReorderLevel
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func productPayload(p *domain.Product) events.ProductPayload {
	return events.ProductPayload{
		SKU:          p.SKU,
		Name:         p.Name,
		UnitPrice:    p.UnitPrice.StringFixed(2),
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
	}
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
