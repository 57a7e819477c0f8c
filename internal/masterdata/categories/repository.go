package categories

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

// Repository is the persistence boundary for categories.
type Repository interface {
	List(ctx context.Context, q listquery.State) ([]Category, int, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, category Category) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, q listquery.State) ([]Category, int, error) {
	query := `SELECT id, code, name FROM categories WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM categories WHERE 1=1`
	args := []any{}
	countArgs := []any{}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		clause := ` AND (name ILIKE $1 OR code ILIKE $1)`
		query += clause
		countQuery += clause
		args = append(args, pattern)
		countArgs = append(countArgs, pattern)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("categories: count: %w", err)
	}

	query += " ORDER BY " + ListConfig.OrderBy(q)
	query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, q.Limit(), q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("categories: list: %w", err)
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, 0, fmt.Errorf("categories: scan: %w", err)
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	const query = `SELECT id, code, name FROM categories WHERE id = $1`

	var c Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Code, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, httpx.ErrNotFound
		}
		return Category{}, fmt.Errorf("categories: get: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	const query = `
		INSERT INTO categories (code, name, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, category.Code, category.Name).Scan(&category.ID)
	if err != nil {
		return Category{}, mapPgError(err, "categories: create")
	}
	return category, nil
}

func (r *repository) Update(ctx context.Context, id int64, category Category) error {
	const query = `
		UPDATE categories
		SET code = $1, name = $2, updated_at = now()
		WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, category.Code, category.Name, id)
	if err != nil {
		return mapPgError(err, "categories: update")
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func mapPgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
