package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
)

// SaleRepository persists sales and their lines.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]domain.Sale, error)
	// TransitionStatus moves the sale from one status to another and fails with
	// pgx.ErrNoRows when the stored status differs from from.
	TransitionStatus(ctx context.Context, id string, from, to domain.SaleStatus) error
	// Confirm moves a DRAFT sale to CONFIRMED and records the warehouse the
	// stock left from. It fails with pgx.ErrNoRows when the sale is not DRAFT.
	Confirm(ctx context.Context, id, warehouseID string) error
	// RevertConfirm puts a CONFIRMED sale back to DRAFT with its previous warehouse.
	RevertConfirm(ctx context.Context, id string, warehouseID *string) error
	Summary(ctx context.Context, since time.Time) (count int, revenue decimal.Decimal, err error)
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	Status   *domain.SaleStatus
	From     *time.Time
	To       *time.Time
	Customer string
	// WithItems loads sale lines for every listed sale.
	WithItems bool
	Page
}

type saleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository builds the repository.
func NewSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &saleRepository{pool: pool}
}

const saleColumns = `id, reference, customer_name, warehouse_id, sold_at, status, total, created_by, created_at, updated_at`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	if err := row.Scan(
		&s.ID,
		&s.Reference,
		&s.CustomerName,
		&s.WarehouseID,
		&s.SoldAt,
		&s.Status,
		&s.Total,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertSale = `
            INSERT INTO sales (reference, customer_name, warehouse_id, sold_at, status, total, created_by)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertSale,
			sale.Reference,
			sale.CustomerName,
			sale.WarehouseID,
			sale.SoldAt,
			sale.Status,
			sale.Total,
			sale.CreatedBy,
		).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
			return err
		}

		const insertItem = `
            INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, line_total)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id`
		for i := range sale.Items {
			item := &sale.Items[i]
			item.SaleID = sale.ID
			if err := tx.QueryRow(ctx, insertItem,
				item.SaleID,
				item.ProductID,
				item.Quantity,
				item.UnitPrice,
				item.LineTotal,
			).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	items, err := r.items(ctx, []string{sale.ID})
	if err != nil {
		return nil, err
	}
	sale.Items = items[sale.ID]
	return sale, nil
}

// saleListQuery orders by id after sold_at so pages never overlap on equal timestamps.
func saleListQuery(filter SaleFilter) (string, []any) {
	var w where
	if filter.Status != nil {
		w.add("status=$%d", *filter.Status)
	}
	if filter.From != nil {
		w.add("sold_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("sold_at < $%d", *filter.To)
	}
	if filter.Customer != "" {
		w.add("customer_name ILIKE $%d", "%"+filter.Customer+"%")
	}
	return `SELECT ` + saleColumns + ` FROM sales` + w.String() + ` ORDER BY sold_at DESC, id` + filter.Page.clause(), w.args
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]domain.Sale, error) {
	query, args := saleListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var result []domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, *sale)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if filter.WithItems && len(result) > 0 {
		ids := make([]string, 0, len(result))
		for _, s := range result {
			ids = append(ids, s.ID)
		}
		items, err := r.items(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range result {
			result[i].Items = items[result[i].ID]
		}
	}
	return result, nil
}

func (r *saleRepository) items(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
	const query = `
        SELECT id, sale_id, product_id, quantity, unit_price, line_total
        FROM sale_items WHERE sale_id = ANY($1::uuid[]) ORDER BY id`
	rows, err := r.pool.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.SaleItem, len(saleIDs))
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		out[item.SaleID] = append(out[item.SaleID], item)
	}
	return out, rows.Err()
}

func (r *saleRepository) TransitionStatus(ctx context.Context, id string, from, to domain.SaleStatus) error {
	const query = `UPDATE sales SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	return requireAffected(r.pool.Exec(ctx, query, to, id, from))
}

func (r *saleRepository) Confirm(ctx context.Context, id, warehouseID string) error {
	const query = `
        UPDATE sales SET status=$1, warehouse_id=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`
	return requireAffected(r.pool.Exec(ctx, query, domain.SaleStatusConfirmed, warehouseID, id, domain.SaleStatusDraft))
}

func (r *saleRepository) RevertConfirm(ctx context.Context, id string, warehouseID *string) error {
	const query = `
        UPDATE sales SET status=$1, warehouse_id=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`
	return requireAffected(r.pool.Exec(ctx, query, domain.SaleStatusDraft, warehouseID, id, domain.SaleStatusConfirmed))
}

func (r *saleRepository) Summary(ctx context.Context, since time.Time) (int, decimal.Decimal, error) {
	const query = `
        SELECT COUNT(*), COALESCE(SUM(total), 0)
        FROM sales WHERE status='CONFIRMED' AND sold_at >= $1`
	var (
		count   int
		revenue decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, query, since).Scan(&count, &revenue)
	return count, revenue, err
}
