package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// ErrInsufficientStock is returned when a movement would drive stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockRepository records stock movements and maintains stock levels.
type StockRepository interface {
	// ApplyMovements inserts the movements and updates stock levels atomically.
	ApplyMovements(ctx context.Context, movements []*domain.StockMovement) error
	ListMovements(ctx context.Context, filter MovementFilter) ([]domain.StockMovement, error)
	OnHand(ctx context.Context, productID string) (int, error)
	Quantity(ctx context.Context, warehouseID, productID string) (int, error)
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	ProductID    *string
	WarehouseID  *string
	MovementType *domain.MovementType
	Since        *time.Time
	Page
}

type stockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository builds the repository.
func NewStockRepository(pool *pgxpool.Pool) StockRepository {
	return &stockRepository{pool: pool}
}

func (r *stockRepository) ApplyMovements(ctx context.Context, movements []*domain.StockMovement) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, m := range movements {
			for _, delta := range m.Deltas() {
				if err := applyDelta(ctx, tx, delta.WarehouseID, m.ProductID, delta.Delta); err != nil {
					return err
				}
			}
			const insert = `
                INSERT INTO stock_movements (product_id, movement_type, source_warehouse_id, target_warehouse_id, quantity, reference, note, created_by)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
                RETURNING id, created_at`
			if err := tx.QueryRow(ctx, insert,
				m.ProductID,
				m.MovementType,
				m.SourceWarehouseID,
				m.TargetWarehouseID,
				m.Quantity,
				m.Reference,
				m.Note,
				m.CreatedBy,
			).Scan(&m.ID, &m.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyDelta(ctx context.Context, tx pgx.Tx, warehouseID, productID string, delta int) error {
	const ensure = `
        INSERT INTO stock_levels (warehouse_id, product_id, quantity)
        VALUES ($1,$2,0)
        ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := tx.Exec(ctx, ensure, warehouseID, productID); err != nil {
		return err
	}
	const update = `
        UPDATE stock_levels SET quantity = quantity + $1, updated_at=NOW()
        WHERE warehouse_id=$2 AND product_id=$3 AND quantity + $1 >= 0`
	tag, err := tx.Exec(ctx, update, delta, warehouseID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s in warehouse %s: %w", productID, warehouseID, ErrInsufficientStock)
	}
	return nil
}

const movementColumns = `id, product_id, movement_type, source_warehouse_id, target_warehouse_id, quantity, reference, note, created_by, created_at`

func (r *stockRepository) ListMovements(ctx context.Context, filter MovementFilter) ([]domain.StockMovement, error) {
	var w where
	if filter.ProductID != nil {
		w.add("product_id=$%d", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		w.add("(source_warehouse_id=$%[1]d OR target_warehouse_id=$%[1]d)", *filter.WarehouseID)
	}
	if filter.MovementType != nil {
		w.add("movement_type=$%d", *filter.MovementType)
	}
	if filter.Since != nil {
		w.add("created_at >= $%d", *filter.Since)
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + w.String() + ` ORDER BY created_at DESC, id` + filter.Page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(
			&m.ID,
			&m.ProductID,
			&m.MovementType,
			&m.SourceWarehouseID,
			&m.TargetWarehouseID,
			&m.Quantity,
			&m.Reference,
			&m.Note,
			&m.CreatedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *stockRepository) OnHand(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)::int FROM stock_levels WHERE product_id=$1`, productID).Scan(&n)
	return n, err
}

func (r *stockRepository) Quantity(ctx context.Context, warehouseID, productID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::int FROM stock_levels WHERE warehouse_id=$1 AND product_id=$2`,
		warehouseID, productID).Scan(&n)
	return n, err
}
