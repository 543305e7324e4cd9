package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// ProductRepository persists the product catalogue.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	ListLowStock(ctx context.Context, page Page) ([]domain.ProductStock, error)
	CountLowStock(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category        string
	Search          string
	IncludeInactive bool
	Page
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository builds the repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `p.id, p.sku, p.name, p.category, p.unit_price, p.reorder_level, p.is_active, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, extra ...any) (*domain.Product, error) {
	var p domain.Product
	dest := []any{
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Category,
		&p.UnitPrice,
		&p.ReorderLevel,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (sku, name, category, unit_price, reorder_level, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.SKU,
		product.Name,
		product.Category,
		product.UnitPrice,
		product.ReorderLevel,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET sku=$1, name=$2, category=$3, unit_price=$4, reorder_level=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		product.SKU,
		product.Name,
		product.Category,
		product.UnitPrice,
		product.ReorderLevel,
		product.IsActive,
		product.ID,
	).Scan(&product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id=$1`, id))
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	var w where
	if !filter.IncludeInactive {
		w.clauses = append(w.clauses, "p.is_active = TRUE")
	}
	if filter.Category != "" {
		w.add("p.category=$%d", filter.Category)
	}
	if filter.Search != "" {
		w.add("(p.name ILIKE $%[1]d OR p.sku ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	query := `SELECT ` + productColumns + ` FROM products p` + w.String() + ` ORDER BY p.name, p.id` + filter.Page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

const lowStockSelect = `
        FROM products p
        LEFT JOIN (SELECT product_id, SUM(quantity) AS on_hand FROM stock_levels GROUP BY product_id) s
            ON s.product_id = p.id
        WHERE p.is_active = TRUE AND COALESCE(s.on_hand, 0) <= p.reorder_level`

func (r *productRepository) ListLowStock(ctx context.Context, page Page) ([]domain.ProductStock, error) {
	query := `SELECT ` + productColumns + `, COALESCE(s.on_hand, 0)::int` + lowStockSelect + ` ORDER BY COALESCE(s.on_hand, 0), p.name, p.id` + page.clause()
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductStock
	for rows.Next() {
		var onHand int
		p, err := scanProduct(rows, &onHand)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.ProductStock{Product: *p, OnHand: onHand})
	}
	return result, rows.Err()
}

func (r *productRepository) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+lowStockSelect).Scan(&n)
	return n, err
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active = TRUE`).Scan(&n)
	return n, err
}
