package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// PurchaseOrderRepository persists purchase orders and their lines.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *domain.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	List(ctx context.Context, filter PurchaseOrderFilter) ([]domain.PurchaseOrder, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.PurchaseOrderStatus) error
	CountOpen(ctx context.Context) (int, error)
}

// PurchaseOrderFilter narrows PO listings.
type PurchaseOrderFilter struct {
	Status      *domain.PurchaseOrderStatus
	WarehouseID *string
	Supplier    string
	Page
}

type purchaseOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseOrderRepository builds the repository.
func NewPurchaseOrderRepository(pool *pgxpool.Pool) PurchaseOrderRepository {
	return &purchaseOrderRepository{pool: pool}
}

const purchaseOrderColumns = `id, po_number, supplier_name, warehouse_id, status, expected_at, total, created_by, created_at, updated_at`

func scanPurchaseOrder(row pgx.Row) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	if err := row.Scan(
		&po.ID,
		&po.PONumber,
		&po.SupplierName,
		&po.WarehouseID,
		&po.Status,
		&po.ExpectedAt,
		&po.Total,
		&po.CreatedBy,
		&po.CreatedAt,
		&po.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertPO = `
            INSERT INTO purchase_orders (po_number, supplier_name, warehouse_id, status, expected_at, total, created_by)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertPO,
			po.PONumber,
			po.SupplierName,
			po.WarehouseID,
			po.Status,
			po.ExpectedAt,
			po.Total,
			po.CreatedBy,
		).Scan(&po.ID, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return err
		}

		const insertItem = `
            INSERT INTO purchase_order_items (purchase_order_id, product_id, quantity, unit_cost, line_total)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id`
		for i := range po.Items {
			item := &po.Items[i]
			item.PurchaseOrderID = po.ID
			if err := tx.QueryRow(ctx, insertItem,
				item.PurchaseOrderID,
				item.ProductID,
				item.Quantity,
				item.UnitCost,
				item.LineTotal,
			).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.pool.QueryRow(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}

	const query = `
        SELECT id, purchase_order_id, product_id, quantity, unit_cost, line_total
        FROM purchase_order_items WHERE purchase_order_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, po.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.PurchaseOrderID, &item.ProductID, &item.Quantity, &item.UnitCost, &item.LineTotal); err != nil {
			return nil, err
		}
		po.Items = append(po.Items, item)
	}
	return po, rows.Err()
}

func (r *purchaseOrderRepository) List(ctx context.Context, filter PurchaseOrderFilter) ([]domain.PurchaseOrder, error) {
	var w where
	if filter.Status != nil {
		w.add("status=$%d", *filter.Status)
	}
	if filter.WarehouseID != nil {
		w.add("warehouse_id=$%d", *filter.WarehouseID)
	}
	if filter.Supplier != "" {
		w.add("supplier_name ILIKE $%d", "%"+filter.Supplier+"%")
	}
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders` + w.String() + ` ORDER BY created_at DESC, id` + filter.Page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *po)
	}
	return result, rows.Err()
}

func (r *purchaseOrderRepository) TransitionStatus(ctx context.Context, id string, from, to domain.PurchaseOrderStatus) error {
	const query = `UPDATE purchase_orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	return requireAffected(r.pool.Exec(ctx, query, to, id, from))
}

func (r *purchaseOrderRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders WHERE status IN ('DRAFT','SUBMITTED','APPROVED')`).Scan(&n)
	return n, err
}
