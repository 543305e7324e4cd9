package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// WarehouseRepository persists warehouses and reads their stock.
type WarehouseRepository interface {
	Create(ctx context.Context, wh *domain.Warehouse) error
	Update(ctx context.Context, wh *domain.Warehouse) error
	GetByID(ctx context.Context, id string) (*domain.Warehouse, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Warehouse, error)
	Stock(ctx context.Context, warehouseID string) ([]domain.StockLevel, error)
}

type warehouseRepository struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository builds the repository.
func NewWarehouseRepository(pool *pgxpool.Pool) WarehouseRepository {
	return &warehouseRepository{pool: pool}
}

const warehouseColumns = `id, code, name, location, is_active, created_at, updated_at`

func scanWarehouse(row pgx.Row) (*domain.Warehouse, error) {
	var wh domain.Warehouse
	if err := row.Scan(&wh.ID, &wh.Code, &wh.Name, &wh.Location, &wh.IsActive, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *warehouseRepository) Create(ctx context.Context, wh *domain.Warehouse) error {
	const query = `
        INSERT INTO warehouses (code, name, location, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, wh.Code, wh.Name, wh.Location, wh.IsActive).
		Scan(&wh.ID, &wh.CreatedAt, &wh.UpdatedAt)
}

func (r *warehouseRepository) Update(ctx context.Context, wh *domain.Warehouse) error {
	const query = `
        UPDATE warehouses SET code=$1, name=$2, location=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, wh.Code, wh.Name, wh.Location, wh.IsActive, wh.ID).Scan(&wh.UpdatedAt)
}

func (r *warehouseRepository) GetByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	return scanWarehouse(r.pool.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id=$1`, id))
}

func (r *warehouseRepository) List(ctx context.Context, includeInactive bool) ([]domain.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Warehouse
	for rows.Next() {
		wh, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *wh)
	}
	return result, rows.Err()
}

func (r *warehouseRepository) Stock(ctx context.Context, warehouseID string) ([]domain.StockLevel, error) {
	const query = `
        SELECT warehouse_id, product_id, quantity, updated_at
        FROM stock_levels WHERE warehouse_id=$1 AND quantity > 0 ORDER BY product_id`
	rows, err := r.pool.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StockLevel
	for rows.Next() {
		var lvl domain.StockLevel
		if err := rows.Scan(&lvl.WarehouseID, &lvl.ProductID, &lvl.Quantity, &lvl.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, lvl)
	}
	return result, rows.Err()
}
