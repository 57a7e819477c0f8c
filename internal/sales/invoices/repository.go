package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/db"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Repository is the persistence boundary for invoices.
type Repository interface {
	List(ctx context.Context, q listquery.State, filters ListFilters) ([]Invoice, int, error)
	Get(ctx context.Context, id int64) (Invoice, error)
	Create(ctx context.Context, invoice Invoice) (int64, error)
	Update(ctx context.Context, invoice Invoice) error
	Delete(ctx context.Context, id int64) error
	RecordPayment(ctx context.Context, id int64, amount float64) (Invoice, error)
	NextReference(ctx context.Context) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `i.id, i.reference, i.date, i.customer_id, cu.name,
	i.branch_id, b.name, i.status, i.grand_total, i.paid_amount`

func (r *repository) List(ctx context.Context, q listquery.State, f ListFilters) ([]Invoice, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(i.reference ILIKE $%d OR cu.name ILIKE $%d)", len(args), len(args)))
	}
	if f.BranchID > 0 {
		args = append(args, f.BranchID)
		where = append(where, fmt.Sprintf("i.branch_id = $%d", len(args)))
	}
	if f.CustomerID > 0 {
		args = append(args, f.CustomerID)
		where = append(where, fmt.Sprintf("i.customer_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if !f.DateFrom.IsZero() {
		args = append(args, f.DateFrom)
		where = append(where, fmt.Sprintf("i.date >= $%d", len(args)))
	}
	if !f.DateTo.IsZero() {
		args = append(args, f.DateTo)
		where = append(where, fmt.Sprintf("i.date <= $%d", len(args)))
	}

	base := `FROM invoices i
		JOIN customers cu ON cu.id = i.customer_id
		JOIN branches b ON b.id = i.branch_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d",
		invoiceColumns, base, ListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.Reference, &inv.Date, &inv.CustomerID, &inv.CustomerName,
			&inv.BranchID, &inv.BranchName, &inv.Status, &inv.GrandTotal, &inv.PaidAmount); err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Invoice, error) {
	var inv Invoice
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s
		FROM invoices i
		JOIN customers cu ON cu.id = i.customer_id
		JOIN branches b ON b.id = i.branch_id
		WHERE i.id = $1`, invoiceColumns), id).
		Scan(&inv.ID, &inv.Reference, &inv.Date, &inv.CustomerID, &inv.CustomerName,
			&inv.BranchID, &inv.BranchName, &inv.Status, &inv.GrandTotal, &inv.PaidAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT l.id, l.product_id, p.name, l.quantity,
			l.unit_price, l.discount_percent, l.tax_percent, l.total
		FROM invoice_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.invoice_id = $1
		ORDER BY l.id`, id)
	if err != nil {
		return Invoice{}, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ln InvoiceLine
		if err := rows.Scan(&ln.ID, &ln.ProductID, &ln.ProductName, &ln.Quantity,
			&ln.UnitPrice, &ln.DiscountPercent, &ln.TaxPercent, &ln.Total); err != nil {
			return Invoice{}, fmt.Errorf("scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, ln)
	}
	return inv, rows.Err()
}

func (r *repository) NextReference(ctx context.Context) (string, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('invoice_ref_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("invoice reference: %w", err)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

// Create inserts the invoice with its lines and reduces branch stock for
// every line, all in one transaction. Insufficient stock aborts the whole
// document.
func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO invoices
				(reference, date, customer_id, branch_id, status, grand_total, paid_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			inv.Reference, inv.Date, inv.CustomerID, inv.BranchID,
			inv.Status, inv.GrandTotal, inv.PaidAmount).Scan(&id)
		if err != nil {
			return mapPgError(err)
		}
		if err := insertLines(ctx, tx, id, inv.Lines); err != nil {
			return err
		}
		return adjustStock(ctx, tx, inv.BranchID, inv.Lines, -1)
	})
	return id, err
}

// Update restores the stock consumed by the previous lines, replaces them,
// and consumes stock for the new ones.
func (r *repository) Update(ctx context.Context, inv Invoice) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		prevBranch, prevLines, err := currentLines(ctx, tx, inv.ID)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE invoices
			SET date = $2, customer_id = $3, branch_id = $4, status = $5,
				grand_total = $6, paid_amount = $7
			WHERE id = $1`,
			inv.ID, inv.Date, inv.CustomerID, inv.BranchID,
			inv.Status, inv.GrandTotal, inv.PaidAmount)
		if err != nil {
			return mapPgError(err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, inv.ID)
		}
		if err := adjustStock(ctx, tx, prevBranch, prevLines, +1); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, inv.ID); err != nil {
			return fmt.Errorf("clear invoice lines: %w", err)
		}
		if err := insertLines(ctx, tx, inv.ID, inv.Lines); err != nil {
			return err
		}
		return adjustStock(ctx, tx, inv.BranchID, inv.Lines, -1)
	})
}

// Delete removes the invoice and returns its stock to the branch.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		branchID, lines, err := currentLines(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := adjustStock(ctx, tx, branchID, lines, +1); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
			return fmt.Errorf("delete invoice lines: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
}

// RecordPayment adds an amount to paid_amount and rederives the status.
func (r *repository) RecordPayment(ctx context.Context, id int64, amount float64) (Invoice, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var grandTotal, paid float64
		err := tx.QueryRow(ctx, `SELECT grand_total, paid_amount FROM invoices WHERE id = $1 FOR UPDATE`, id).
			Scan(&grandTotal, &paid)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("lock invoice: %w", err)
		}
		paid += amount
		_, err = tx.Exec(ctx, `UPDATE invoices SET paid_amount = $2, status = $3 WHERE id = $1`,
			id, paid, DeriveStatus(grandTotal, paid))
		return err
	})
	if err != nil {
		return Invoice{}, err
	}
	return r.Get(ctx, id)
}

func currentLines(ctx context.Context, tx pgx.Tx, invoiceID int64) (int64, []InvoiceLine, error) {
	var branchID int64
	err := tx.QueryRow(ctx, `SELECT branch_id FROM invoices WHERE id = $1 FOR UPDATE`, invoiceID).
		Scan(&branchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, invoiceID)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("lock invoice: %w", err)
	}
	rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return 0, nil, fmt.Errorf("load invoice lines: %w", err)
	}
	defer rows.Close()
	var lines []InvoiceLine
	for rows.Next() {
		var ln InvoiceLine
		if err := rows.Scan(&ln.ProductID, &ln.Quantity); err != nil {
			return 0, nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, ln)
	}
	return branchID, lines, rows.Err()
}

func insertLines(ctx context.Context, tx pgx.Tx, invoiceID int64, lines []InvoiceLine) error {
	for _, ln := range lines {
		_, err := tx.Exec(ctx, `INSERT INTO invoice_lines
				(invoice_id, product_id, quantity, unit_price, discount_percent, tax_percent, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			invoiceID, ln.ProductID, ln.Quantity, ln.UnitPrice, ln.DiscountPercent, ln.TaxPercent, ln.Total)
		if err != nil {
			return mapPgError(err)
		}
	}
	return nil
}

// adjustStock moves branch stock by sign*quantity per line. Negative moves
// require sufficient stock; the CHECK-style guard is enforced here so the
// caller gets a validation error rather than a constraint violation.
func adjustStock(ctx context.Context, tx pgx.Tx, branchID int64, lines []InvoiceLine, sign float64) error {
	for _, ln := range lines {
		delta := sign * ln.Quantity
		if delta < 0 {
			var have float64
			err := tx.QueryRow(ctx, `SELECT quantity FROM branch_stocks
				WHERE branch_id = $1 AND product_id = $2 FOR UPDATE`, branchID, ln.ProductID).
				Scan(&have)
			if errors.Is(err, pgx.ErrNoRows) {
				have = 0
				err = nil
			}
			if err != nil {
				return fmt.Errorf("lock stock: %w", err)
			}
			if have+delta < 0 {
				return fmt.Errorf("%w: insufficient stock for product %d", httpx.ErrValidation, ln.ProductID)
			}
		}
		_, err := tx.Exec(ctx, `INSERT INTO branch_stocks (branch_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (branch_id, product_id)
			DO UPDATE SET quantity = branch_stocks.quantity + EXCLUDED.quantity`,
			branchID, ln.ProductID, delta)
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: invoice reference already exists", httpx.ErrDuplicate)
	}
	return err
}
