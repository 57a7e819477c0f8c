package quotations

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/db"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Repository is the persistence boundary for quotations.
type Repository interface {
	List(ctx context.Context, q listquery.State, filters ListFilters) ([]Quotation, int, error)
	Get(ctx context.Context, id int64) (Quotation, error)
	Create(ctx context.Context, quotation Quotation) (int64, error)
	Update(ctx context.Context, quotation Quotation) error
	Delete(ctx context.Context, id int64) error
	NextReference(ctx context.Context) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, q listquery.State, filters ListFilters) ([]Quotation, int, error) {
	base := ` FROM quotations q
		JOIN customers cu ON cu.id = q.customer_id
		JOIN branches b ON b.id = q.branch_id`
	where := ` WHERE 1=1`
	args := []any{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += ` AND (q.reference ILIKE $` + strconv.Itoa(len(args)) + ` OR cu.name ILIKE $` + strconv.Itoa(len(args)) + `)`
	}
	if filters.BranchID > 0 {
		args = append(args, filters.BranchID)
		where += ` AND q.branch_id = $` + strconv.Itoa(len(args))
	}
	if filters.CustomerID > 0 {
		args = append(args, filters.CustomerID)
		where += ` AND q.customer_id = $` + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += ` AND q.status = $` + strconv.Itoa(len(args))
	}
	if !filters.DateFrom.IsZero() {
		args = append(args, filters.DateFrom)
		where += ` AND q.date >= $` + strconv.Itoa(len(args))
	}
	if !filters.DateTo.IsZero() {
		args = append(args, filters.DateTo)
		where += ` AND q.date <= $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+base+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quotations: count: %w", err)
	}

	query := `SELECT q.id, q.reference, q.date, q.customer_id, cu.name, q.branch_id, b.name, q.status, q.grand_total` +
		base + where + ` ORDER BY ` + ListConfig.OrderBy(q)
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, q.Limit(), q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("quotations: list: %w", err)
	}
	defer rows.Close()

	var items []Quotation
	for rows.Next() {
		var qt Quotation
		if err := rows.Scan(&qt.ID, &qt.Reference, &qt.Date, &qt.CustomerID, &qt.CustomerName,
			&qt.BranchID, &qt.BranchName, &qt.Status, &qt.GrandTotal); err != nil {
			return nil, 0, fmt.Errorf("quotations: scan: %w", err)
		}
		items = append(items, qt)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Quotation, error) {
	const query = `
		SELECT q.id, q.reference, q.date, q.customer_id, cu.name, q.branch_id, b.name, q.status, q.grand_total
		FROM quotations q
		JOIN customers cu ON cu.id = q.customer_id
		JOIN branches b ON b.id = q.branch_id
		WHERE q.id = $1`

	var qt Quotation
	err := r.pool.QueryRow(ctx, query, id).Scan(&qt.ID, &qt.Reference, &qt.Date,
		&qt.CustomerID, &qt.CustomerName, &qt.BranchID, &qt.BranchName, &qt.Status, &qt.GrandTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quotation{}, httpx.ErrNotFound
		}
		return Quotation{}, fmt.Errorf("quotations: get: %w", err)
	}

	const lineQuery = `
		SELECT l.id, l.product_id, p.name, l.quantity, l.unit_price, l.discount_percent, l.tax_percent, l.total
		FROM quotation_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.quotation_id = $1
		ORDER BY l.id`

	rows, err := r.pool.Query(ctx, lineQuery, id)
	if err != nil {
		return Quotation{}, fmt.Errorf("quotations: lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l QuotationLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Quantity,
			&l.UnitPrice, &l.DiscountPercent, &l.TaxPercent, &l.Total); err != nil {
			return Quotation{}, fmt.Errorf("quotations: scan line: %w", err)
		}
		qt.Lines = append(qt.Lines, l)
	}
	return qt, rows.Err()
}

func (r *repository) Create(ctx context.Context, quotation Quotation) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const header = `
			INSERT INTO quotations (reference, date, customer_id, branch_id, status, grand_total, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			RETURNING id`
		if err := tx.QueryRow(ctx, header, quotation.Reference, quotation.Date,
			quotation.CustomerID, quotation.BranchID, quotation.Status, quotation.GrandTotal).Scan(&id); err != nil {
			return fmt.Errorf("quotations: insert header: %w", err)
		}
		return insertLines(ctx, tx, id, quotation.Lines)
	})
	return id, err
}

func (r *repository) Update(ctx context.Context, quotation Quotation) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const header = `
			UPDATE quotations
			SET date = $1, customer_id = $2, branch_id = $3, status = $4, grand_total = $5, updated_at = now()
			WHERE id = $6`
		tag, err := tx.Exec(ctx, header, quotation.Date, quotation.CustomerID,
			quotation.BranchID, quotation.Status, quotation.GrandTotal, quotation.ID)
		if err != nil {
			return fmt.Errorf("quotations: update header: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_lines WHERE quotation_id = $1`, quotation.ID); err != nil {
			return fmt.Errorf("quotations: clear lines: %w", err)
		}
		return insertLines(ctx, tx, quotation.ID, quotation.Lines)
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, quotationID int64, lines []QuotationLine) error {
	const query = `
		INSERT INTO quotation_lines (quotation_id, product_id, quantity, unit_price, discount_percent, tax_percent, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range lines {
		if _, err := tx.Exec(ctx, query, quotationID, l.ProductID, l.Quantity,
			l.UnitPrice, l.DiscountPercent, l.TaxPercent, l.Total); err != nil {
			return fmt.Errorf("quotations: insert line: %w", err)
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_lines WHERE quotation_id = $1`, id); err != nil {
			return fmt.Errorf("quotations: delete lines: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("quotations: delete: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		return nil
	})
}

func (r *repository) NextReference(ctx context.Context) (string, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('quotation_ref_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("quotations: next reference: %w", err)
	}
	return fmt.Sprintf("QT-%06d", n), nil
}
