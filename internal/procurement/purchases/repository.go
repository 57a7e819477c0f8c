package purchases

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

// Repository is the persistence boundary for purchases.
type Repository interface {
	List(ctx context.Context, q listquery.State, filters ListFilters) ([]Purchase, int, error)
	Get(ctx context.Context, id int64) (Purchase, error)
	Create(ctx context.Context, purchase Purchase) (int64, error)
	Update(ctx context.Context, purchase Purchase) error
	Delete(ctx context.Context, id int64) error
	Receive(ctx context.Context, id int64) error
	NextReference(ctx context.Context) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const purchaseColumns = `pu.id, pu.reference, pu.date, pu.supplier_id, s.name,
	pu.branch_id, b.name, pu.status, pu.grand_total`

func (r *repository) List(ctx context.Context, q listquery.State, f ListFilters) ([]Purchase, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(pu.reference ILIKE $%d OR s.name ILIKE $%d)", len(args), len(args)))
	}
	if f.BranchID > 0 {
		args = append(args, f.BranchID)
		where = append(where, fmt.Sprintf("pu.branch_id = $%d", len(args)))
	}
	if f.SupplierID > 0 {
		args = append(args, f.SupplierID)
		where = append(where, fmt.Sprintf("pu.supplier_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("pu.status = $%d", len(args)))
	}
	if !f.DateFrom.IsZero() {
		args = append(args, f.DateFrom)
		where = append(where, fmt.Sprintf("pu.date >= $%d", len(args)))
	}
	if !f.DateTo.IsZero() {
		args = append(args, f.DateTo)
		where = append(where, fmt.Sprintf("pu.date <= $%d", len(args)))
	}

	base := `FROM purchases pu
		JOIN suppliers s ON s.id = pu.supplier_id
		JOIN branches b ON b.id = pu.branch_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d",
		purchaseColumns, base, ListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.Date, &p.SupplierID, &p.SupplierName,
			&p.BranchID, &p.BranchName, &p.Status, &p.GrandTotal); err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Purchase, error) {
	var p Purchase
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s
		FROM purchases pu
		JOIN suppliers s ON s.id = pu.supplier_id
		JOIN branches b ON b.id = pu.branch_id
		WHERE pu.id = $1`, purchaseColumns), id).
		Scan(&p.ID, &p.Reference, &p.Date, &p.SupplierID, &p.SupplierName,
			&p.BranchID, &p.BranchName, &p.Status, &p.GrandTotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, fmt.Errorf("%w: purchase %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Purchase{}, fmt.Errorf("get purchase: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT l.id, l.product_id, p.name, l.quantity,
			l.unit_price, l.discount_percent, l.tax_percent, l.total
		FROM purchase_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.purchase_id = $1
		ORDER BY l.id`, id)
	if err != nil {
		return Purchase{}, fmt.Errorf("get purchase lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ln PurchaseLine
		if err := rows.Scan(&ln.ID, &ln.ProductID, &ln.ProductName, &ln.Quantity,
			&ln.UnitPrice, &ln.DiscountPercent, &ln.TaxPercent, &ln.Total); err != nil {
			return Purchase{}, fmt.Errorf("scan purchase line: %w", err)
		}
		p.Lines = append(p.Lines, ln)
	}
	return p, rows.Err()
}

func (r *repository) NextReference(ctx context.Context) (string, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('purchase_ref_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("purchase reference: %w", err)
	}
	return fmt.Sprintf("PUR-%06d", n), nil
}

func (r *repository) Create(ctx context.Context, p Purchase) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO purchases
				(reference, date, supplier_id, branch_id, status, grand_total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			p.Reference, p.Date, p.SupplierID, p.BranchID, p.Status, p.GrandTotal).Scan(&id)
		if err != nil {
			return mapPgError(err)
		}
		return insertLines(ctx, tx, id, p.Lines)
	})
	return id, err
}

func (r *repository) Update(ctx context.Context, p Purchase) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		status, err := lockStatus(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if status == StatusReceived {
			return fmt.Errorf("%w: received purchases cannot be edited", httpx.ErrValidation)
		}
		_, err = tx.Exec(ctx, `UPDATE purchases
			SET date = $2, supplier_id = $3, branch_id = $4, status = $5, grand_total = $6
			WHERE id = $1`,
			p.ID, p.Date, p.SupplierID, p.BranchID, p.Status, p.GrandTotal)
		if err != nil {
			return mapPgError(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear purchase lines: %w", err)
		}
		return insertLines(ctx, tx, p.ID, p.Lines)
	})
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		status, err := lockStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		if status == StatusReceived {
			return fmt.Errorf("%w: received purchases cannot be deleted", httpx.ErrValidation)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, id); err != nil {
			return fmt.Errorf("delete purchase lines: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}
		return nil
	})
}

// Receive marks the purchase received and adds its lines to branch stock.
// Receiving twice is rejected so stock moves exactly once.
func (r *repository) Receive(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		status, err := lockStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		if status == StatusReceived {
			return fmt.Errorf("%w: purchase already received", httpx.ErrValidation)
		}

		var branchID int64
		if err := tx.QueryRow(ctx, `SELECT branch_id FROM purchases WHERE id = $1`, id).Scan(&branchID); err != nil {
			return fmt.Errorf("get purchase branch: %w", err)
		}
		rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM purchase_lines WHERE purchase_id = $1`, id)
		if err != nil {
			return fmt.Errorf("load purchase lines: %w", err)
		}
		defer rows.Close()
		type move struct {
			productID int64
			qty       float64
		}
		var moves []move
		for rows.Next() {
			var m move
			if err := rows.Scan(&m.productID, &m.qty); err != nil {
				return fmt.Errorf("scan purchase line: %w", err)
			}
			moves = append(moves, m)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, m := range moves {
			_, err := tx.Exec(ctx, `INSERT INTO branch_stocks (branch_id, product_id, quantity)
				VALUES ($1, $2, $3)
				ON CONFLICT (branch_id, product_id)
				DO UPDATE SET quantity = branch_stocks.quantity + EXCLUDED.quantity`,
				branchID, m.productID, m.qty)
			if err != nil {
				return fmt.Errorf("receive stock: %w", err)
			}
		}
		_, err = tx.Exec(ctx, `UPDATE purchases SET status = $2 WHERE id = $1`, id, StatusReceived)
		return err
	})
}

func lockStatus(ctx context.Context, tx pgx.Tx, id int64) (string, error) {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM purchases WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: purchase %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("lock purchase: %w", err)
	}
	return status, nil
}

func insertLines(ctx context.Context, tx pgx.Tx, purchaseID int64, lines []PurchaseLine) error {
	for _, ln := range lines {
		_, err := tx.Exec(ctx, `INSERT INTO purchase_lines
				(purchase_id, product_id, quantity, unit_price, discount_percent, tax_percent, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			purchaseID, ln.ProductID, ln.Quantity, ln.UnitPrice, ln.DiscountPercent, ln.TaxPercent, ln.Total)
		if err != nil {
			return mapPgError(err)
		}
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: purchase reference already exists", httpx.ErrDuplicate)
	}
	return err
}
