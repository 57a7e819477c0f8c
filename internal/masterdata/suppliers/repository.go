package suppliers

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

const supplierColumns = `id, name, company, vat_number, email, phone, address, city, state, postal_code, country`

// Repository is the persistence boundary for suppliers.
type Repository interface {
	List(ctx context.Context, q listquery.State) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, supplier Supplier) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Company, &s.VATNumber, &s.Email, &s.Phone,
		&s.Address, &s.City, &s.State, &s.PostalCode, &s.Country)
	return s, err
}

func (r *repository) List(ctx context.Context, q listquery.State) ([]Supplier, int, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE 1=1`
	args := []any{}
	countArgs := []any{}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		clause := ` AND (name ILIKE $1 OR company ILIKE $1 OR email ILIKE $1 OR vat_number ILIKE $1)`
		query += clause
		countQuery += clause
		args = append(args, pattern)
		countArgs = append(countArgs, pattern)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("suppliers: count: %w", err)
	}

	query += " ORDER BY " + ListConfig.OrderBy(q)
	query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, q.Limit(), q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("suppliers: list: %w", err)
	}
	defer rows.Close()

	var items []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("suppliers: scan: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, httpx.ErrNotFound
		}
		return Supplier{}, fmt.Errorf("suppliers: get: %w", err)
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	const query = `
		INSERT INTO suppliers (name, company, vat_number, email, phone, address, city, state, postal_code, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		supplier.Name, supplier.Company, supplier.VATNumber, supplier.Email, supplier.Phone,
		supplier.Address, supplier.City, supplier.State, supplier.PostalCode, supplier.Country,
	).Scan(&supplier.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Supplier{}, httpx.ErrDuplicate
		}
		return Supplier{}, fmt.Errorf("suppliers: create: %w", err)
	}
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, id int64, supplier Supplier) error {
	const query = `
		UPDATE suppliers
		SET name = $1, company = $2, vat_number = $3, email = $4, phone = $5,
		    address = $6, city = $7, state = $8, postal_code = $9, country = $10,
		    updated_at = now()
		WHERE id = $11`

	tag, err := r.pool.Exec(ctx, query,
		supplier.Name, supplier.Company, supplier.VATNumber, supplier.Email, supplier.Phone,
		supplier.Address, supplier.City, supplier.State, supplier.PostalCode, supplier.Country, id)
	if err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("suppliers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
