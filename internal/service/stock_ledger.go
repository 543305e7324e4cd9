package service

import (
	"context"
	"errors"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// stockLedger applies movements and raises the follow-up events shared by the
// warehouse, sales and procurement flows.
type stockLedger struct {
	stock    repository.StockRepository
	products repository.ProductRepository
	events   emitter
}

func (l stockLedger) apply(ctx context.Context, actor Actor, movements []*domain.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	for _, m := range movements {
		if m.CreatedBy == nil {
			m.CreatedBy = actor.userRef()
		}
	}
	if err := l.stock.ApplyMovements(ctx, movements); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return apperrors.NewInvalidState("insufficient stock", map[string]any{"reason": err.Error()})
		}
		return err
	}

	seen := make(map[string]struct{}, len(movements))
	for _, m := range movements {
		l.events.emit(ctx, events.EventStockMoved, m.ID, actor, events.StockMovedPayload{
			ProductID:    m.ProductID,
			MovementType: m.MovementType,
			Quantity:     m.Quantity,
			Reference:    m.Reference,
		})
		if _, ok := seen[m.ProductID]; ok {
			continue
		}
		seen[m.ProductID] = struct{}{}
		l.checkLowStock(ctx, actor, m.ProductID)
	}
	return nil
}

// checkLowStock is best effort; lookup failures never undo an applied movement.
func (l stockLedger) checkLowStock(ctx context.Context, actor Actor, productID string) {
	if l.products == nil {
		return
	}
	product, err := l.products.GetByID(ctx, productID)
	if err != nil || !product.IsActive {
		return
	}
	onHand, err := l.stock.OnHand(ctx, productID)
	if err != nil {
		return
	}
	if onHand <= product.ReorderLevel {
		l.events.emit(ctx, events.EventStockLow, product.ID, actor, events.StockLowPayload{
			SKU:          product.SKU,
			OnHand:       onHand,
			ReorderLevel: product.ReorderLevel,
		})
	}
}
