package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/db"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Repository is the persistence boundary for stock movements. Every write
// both records the movement and applies it to branch_stocks in the same
// transaction.
type Repository interface {
	ListAdjustments(ctx context.Context, q listquery.State, branchID int64) ([]StockAdjustment, int, error)
	CreateAdjustment(ctx context.Context, a StockAdjustment) (StockAdjustment, error)
	ListTransfers(ctx context.Context, q listquery.State, branchID int64) ([]StockTransfer, int, error)
	CreateTransfer(ctx context.Context, t StockTransfer) (StockTransfer, error)
	ListReturns(ctx context.Context, q listquery.State, branchID int64) ([]SalesReturn, int, error)
	CreateReturn(ctx context.Context, sr SalesReturn) (SalesReturn, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListAdjustments(ctx context.Context, q listquery.State, branchID int64) ([]StockAdjustment, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR a.reason ILIKE $%d)", len(args), len(args)))
	}
	if branchID > 0 {
		args = append(args, branchID)
		where = append(where, fmt.Sprintf("a.branch_id = $%d", len(args)))
	}

	base := `FROM stock_adjustments a
		JOIN branches b ON b.id = a.branch_id
		JOIN products p ON p.id = a.product_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count adjustments: %w", err)
	}

	query := fmt.Sprintf(`SELECT a.id, a.date, a.branch_id, b.name, a.product_id, p.name,
			a.direction, a.quantity, a.reason %s ORDER BY %s LIMIT %d OFFSET %d`,
		base, AdjustmentListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []StockAdjustment
	for rows.Next() {
		var a StockAdjustment
		if err := rows.Scan(&a.ID, &a.Date, &a.BranchID, &a.BranchName,
			&a.ProductID, &a.ProductName, &a.Direction, &a.Quantity, &a.Reason); err != nil {
			return nil, 0, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *repository) CreateAdjustment(ctx context.Context, a StockAdjustment) (StockAdjustment, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		delta := a.Quantity
		if a.Direction == DirectionSubtract {
			delta = -delta
		}
		if err := moveStock(ctx, tx, a.BranchID, a.ProductID, delta); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `INSERT INTO stock_adjustments
				(date, branch_id, product_id, direction, quantity, reason)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			a.Date, a.BranchID, a.ProductID, a.Direction, a.Quantity, a.Reason).Scan(&a.ID)
	})
	if err != nil {
		return StockAdjustment{}, err
	}
	return a, nil
}

func (r *repository) ListTransfers(ctx context.Context, q listquery.State, branchID int64) ([]StockTransfer, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if branchID > 0 {
		args = append(args, branchID)
		where = append(where, fmt.Sprintf("(t.from_branch_id = $%d OR t.to_branch_id = $%d)", len(args), len(args)))
	}

	base := `FROM stock_transfers t
		JOIN branches fb ON fb.id = t.from_branch_id
		JOIN branches tb ON tb.id = t.to_branch_id
		JOIN products p ON p.id = t.product_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	query := fmt.Sprintf(`SELECT t.id, t.date, t.from_branch_id, fb.name, t.to_branch_id, tb.name,
			t.product_id, p.name, t.quantity, t.note %s ORDER BY %s LIMIT %d OFFSET %d`,
		base, TransferListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var out []StockTransfer
	for rows.Next() {
		var t StockTransfer
		if err := rows.Scan(&t.ID, &t.Date, &t.FromBranchID, &t.FromBranchName,
			&t.ToBranchID, &t.ToBranchName, &t.ProductID, &t.ProductName,
			&t.Quantity, &t.Note); err != nil {
			return nil, 0, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// CreateTransfer moves stock out of the source branch and into the target
// branch atomically. Insufficient stock at the source aborts the transfer.
func (r *repository) CreateTransfer(ctx context.Context, t StockTransfer) (StockTransfer, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := moveStock(ctx, tx, t.FromBranchID, t.ProductID, -t.Quantity); err != nil {
			return err
		}
		if err := moveStock(ctx, tx, t.ToBranchID, t.ProductID, t.Quantity); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `INSERT INTO stock_transfers
				(date, from_branch_id, to_branch_id, product_id, quantity, note)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			t.Date, t.FromBranchID, t.ToBranchID, t.ProductID, t.Quantity, t.Note).Scan(&t.ID)
	})
	if err != nil {
		return StockTransfer{}, err
	}
	return t, nil
}

func (r *repository) ListReturns(ctx context.Context, q listquery.State, branchID int64) ([]SalesReturn, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR i.reference ILIKE $%d)", len(args), len(args)))
	}
	if branchID > 0 {
		args = append(args, branchID)
		where = append(where, fmt.Sprintf("sr.branch_id = $%d", len(args)))
	}

	base := `FROM sales_returns sr
		JOIN invoices i ON i.id = sr.invoice_id
		JOIN branches b ON b.id = sr.branch_id
		JOIN products p ON p.id = sr.product_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count returns: %w", err)
	}

	query := fmt.Sprintf(`SELECT sr.id, sr.date, sr.invoice_id, i.reference, sr.branch_id, b.name,
			sr.product_id, p.name, sr.quantity, sr.reason %s ORDER BY %s LIMIT %d OFFSET %d`,
		base, ReturnListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var out []SalesReturn
	for rows.Next() {
		var sr SalesReturn
		if err := rows.Scan(&sr.ID, &sr.Date, &sr.InvoiceID, &sr.InvoiceReference,
			&sr.BranchID, &sr.BranchName, &sr.ProductID, &sr.ProductName,
			&sr.Quantity, &sr.Reason); err != nil {
			return nil, 0, fmt.Errorf("scan return: %w", err)
		}
		out = append(out, sr)
	}
	return out, total, rows.Err()
}

// CreateReturn restocks returned goods at the invoice's branch. The invoice
// row is locked so concurrent returns against it serialize, keeping the
// returned total within what the invoice sold.
func (r *repository) CreateReturn(ctx context.Context, sr SalesReturn) (SalesReturn, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT branch_id FROM invoices WHERE id = $1 FOR UPDATE`,
			sr.InvoiceID).Scan(&sr.BranchID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: invoice %d", httpx.ErrNotFound, sr.InvoiceID)
		}
		if err != nil {
			return fmt.Errorf("lock invoice: %w", err)
		}

		var sold float64
		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)
			FROM invoice_lines WHERE invoice_id = $1 AND product_id = $2`,
			sr.InvoiceID, sr.ProductID).Scan(&sold); err != nil {
			return fmt.Errorf("sold quantity: %w", err)
		}
		var returned float64
		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)
			FROM sales_returns WHERE invoice_id = $1 AND product_id = $2`,
			sr.InvoiceID, sr.ProductID).Scan(&returned); err != nil {
			return fmt.Errorf("returned quantity: %w", err)
		}
		if err := validateReturnQuantity(sold, returned, sr.Quantity); err != nil {
			return err
		}

		if err := moveStock(ctx, tx, sr.BranchID, sr.ProductID, sr.Quantity); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `INSERT INTO sales_returns
				(date, invoice_id, branch_id, product_id, quantity, reason)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			sr.Date, sr.InvoiceID, sr.BranchID, sr.ProductID, sr.Quantity, sr.Reason).Scan(&sr.ID)
	})
	if err != nil {
		return SalesReturn{}, err
	}
	return sr, nil
}

// validateReturnQuantity enforces the per-invoice return cap: a product can
// only be returned up to the quantity the invoice sold, counting prior
// returns.
func validateReturnQuantity(sold, returned, qty float64) error {
	if sold == 0 {
		return fmt.Errorf("%w: product was not sold on this invoice", httpx.ErrValidation)
	}
	if returned+qty > sold {
		return fmt.Errorf("%w: return exceeds sold quantity", httpx.ErrValidation)
	}
	return nil
}

// moveStock applies a signed delta to one branch/product stock row.
// Negative deltas require sufficient stock.
func moveStock(ctx context.Context, tx pgx.Tx, branchID, productID int64, delta float64) error {
	if delta < 0 {
		var have float64
		err := tx.QueryRow(ctx, `SELECT quantity FROM branch_stocks
			WHERE branch_id = $1 AND product_id = $2 FOR UPDATE`, branchID, productID).Scan(&have)
		if errors.Is(err, pgx.ErrNoRows) {
			have = 0
			err = nil
		}
		if err != nil {
			return fmt.Errorf("lock stock: %w", err)
		}
		if have+delta < 0 {
			return fmt.Errorf("%w: insufficient stock for product %d", httpx.ErrValidation, productID)
		}
	}
	_, err := tx.Exec(ctx, `INSERT INTO branch_stocks (branch_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (branch_id, product_id)
		DO UPDATE SET quantity = branch_stocks.quantity + EXCLUDED.quantity`,
		branchID, productID, delta)
	if err != nil {
		return fmt.Errorf("move stock: %w", err)
	}
	return nil
}
