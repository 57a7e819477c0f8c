package branches

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

// Repository is the persistence boundary for branches.
type Repository interface {
	List(ctx context.Context, q listquery.State) ([]Branch, int, error)
	Get(ctx context.Context, id int64) (Branch, error)
	Create(ctx context.Context, branch Branch) (Branch, error)
	Update(ctx context.Context, id int64, branch Branch) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, q listquery.State) ([]Branch, int, error) {
	query := `SELECT id, name, phone, email, address FROM branches WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM branches WHERE 1=1`
	args := []any{}
	countArgs := []any{}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		clause := ` AND (name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1)`
		query += clause
		countQuery += clause
		args = append(args, pattern)
		countArgs = append(countArgs, pattern)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("branches: count: %w", err)
	}

	query += " ORDER BY " + ListConfig.OrderBy(q)
	query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, q.Limit(), q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("branches: list: %w", err)
	}
	defer rows.Close()

	var items []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Phone, &b.Email, &b.Address); err != nil {
			return nil, 0, fmt.Errorf("branches: scan: %w", err)
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Branch, error) {
	const query = `SELECT id, name, phone, email, address FROM branches WHERE id = $1`

	var b Branch
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Phone, &b.Email, &b.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Branch{}, httpx.ErrNotFound
		}
		return Branch{}, fmt.Errorf("branches: get: %w", err)
	}
	return b, nil
}

func (r *repository) Create(ctx context.Context, branch Branch) (Branch, error) {
	const query = `
		INSERT INTO branches (name, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, branch.Name, branch.Phone, branch.Email, branch.Address).Scan(&branch.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Branch{}, httpx.ErrDuplicate
		}
		return Branch{}, fmt.Errorf("branches: create: %w", err)
	}
	return branch, nil
}

func (r *repository) Update(ctx context.Context, id int64, branch Branch) error {
	const query = `
		UPDATE branches
		SET name = $1, phone = $2, email = $3, address = $4, updated_at = now()
		WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, branch.Name, branch.Phone, branch.Email, branch.Address, id)
	if err != nil {
		return fmt.Errorf("branches: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("branches: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
