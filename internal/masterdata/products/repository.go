package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Repository is the persistence boundary for products.
type Repository interface {
	List(ctx context.Context, q listquery.State, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	BranchStocks(ctx context.Context, id int64) ([]BranchStock, error)
	Create(ctx context.Context, input ProductInput) (Product, error)
	Update(ctx context.Context, id int64, input ProductInput) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, q listquery.State, filters ListFilters) ([]Product, int, error) {
	base := ` FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN branch_stocks bs ON bs.product_id = p.id`
	where := ` WHERE 1=1`
	args := []any{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += ` AND (p.name ILIKE $` + strconv.Itoa(len(args)) + ` OR p.sku ILIKE $` + strconv.Itoa(len(args)) + ` OR p.brand ILIKE $` + strconv.Itoa(len(args)) + `)`
	}
	if filters.CategoryID > 0 {
		args = append(args, filters.CategoryID)
		where += ` AND p.category_id = $` + strconv.Itoa(len(args))
	}
	if filters.BranchID > 0 {
		args = append(args, filters.BranchID)
		where += ` AND bs.branch_id = $` + strconv.Itoa(len(args))
	}

	var total int
	countQuery := `SELECT COUNT(DISTINCT p.id)` + base + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}

	query := `SELECT p.id, p.sku, p.name, p.category_id, c.name, p.brand, p.unit,
			p.cost, p.price, p.alert_qty, COALESCE(SUM(bs.quantity), 0)` +
		base + where +
		` GROUP BY p.id, c.name
		ORDER BY ` + ListConfig.OrderBy(q)
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, q.Limit(), q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.CategoryName,
			&p.Brand, &p.Unit, &p.Cost, &p.Price, &p.AlertQty, &p.StockQty); err != nil {
			return nil, 0, fmt.Errorf("products: scan: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	const query = `
		SELECT p.id, p.sku, p.name, p.category_id, c.name, p.brand, p.unit,
		       p.cost, p.price, p.alert_qty, COALESCE(SUM(bs.quantity), 0)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN branch_stocks bs ON bs.product_id = p.id
		WHERE p.id = $1
		GROUP BY p.id, c.name`

	var p Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID,
		&p.CategoryName, &p.Brand, &p.Unit, &p.Cost, &p.Price, &p.AlertQty, &p.StockQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, httpx.ErrNotFound
		}
		return Product{}, fmt.Errorf("products: get: %w", err)
	}
	return p, nil
}

func (r *repository) BranchStocks(ctx context.Context, id int64) ([]BranchStock, error) {
	const query = `
		SELECT b.id, b.name, COALESCE(bs.quantity, 0)
		FROM branches b
		LEFT JOIN branch_stocks bs ON bs.branch_id = b.id AND bs.product_id = $1
		ORDER BY b.name`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("products: branch stocks: %w", err)
	}
	defer rows.Close()

	var stocks []BranchStock
	for rows.Next() {
		var s BranchStock
		if err := rows.Scan(&s.BranchID, &s.BranchName, &s.Quantity); err != nil {
			return nil, fmt.Errorf("products: scan branch stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

func (r *repository) Create(ctx context.Context, input ProductInput) (Product, error) {
	const query = `
		INSERT INTO products (sku, name, category_id, brand, unit, cost, price, alert_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, input.SKU, input.Name, input.CategoryID,
		input.Brand, input.Unit, input.Cost, input.Price, input.AlertQty).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Product{}, httpx.ErrDuplicate
		}
		return Product{}, fmt.Errorf("products: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, input ProductInput) error {
	const query = `
		UPDATE products
		SET sku = $1, name = $2, category_id = $3, brand = $4, unit = $5,
		    cost = $6, price = $7, alert_qty = $8, updated_at = now()
		WHERE id = $9`

	tag, err := r.pool.Exec(ctx, query, input.SKU, input.Name, input.CategoryID,
		input.Brand, input.Unit, input.Cost, input.Price, input.AlertQty, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return fmt.Errorf("products: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
