package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
)

// Repository reads the report projections. Reports are read-only.
type Repository interface {
	SalesRows(ctx context.Context, q listquery.State, f Filters) ([]SalesRow, int, error)
	SalesSummary(ctx context.Context, f Filters) (SalesSummary, error)
	PurchaseRows(ctx context.Context, q listquery.State, f Filters) ([]PurchaseRow, int, error)
	PurchaseSummary(ctx context.Context, f Filters) (PurchaseSummary, error)
	StockRows(ctx context.Context, q listquery.State, f Filters) ([]StockRow, int, error)
	StockSummary(ctx context.Context, f Filters) (StockSummary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func salesWhere(q listquery.State, f Filters) (string, []any) {
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
	if !f.DateFrom.IsZero() {
		args = append(args, f.DateFrom)
		where = append(where, fmt.Sprintf("i.date >= $%d", len(args)))
	}
	if !f.DateTo.IsZero() {
		args = append(args, f.DateTo)
		where = append(where, fmt.Sprintf("i.date <= $%d", len(args)))
	}
	return strings.Join(where, " AND "), args
}

func (r *repository) SalesRows(ctx context.Context, q listquery.State, f Filters) ([]SalesRow, int, error) {
	cond, args := salesWhere(q, f)
	base := `FROM invoices i
		JOIN customers cu ON cu.id = i.customer_id
		JOIN branches b ON b.id = i.branch_id
		WHERE ` + cond

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales rows: %w", err)
	}

	query := fmt.Sprintf(`SELECT i.id, i.reference, i.date, cu.name, b.name, i.status,
			i.grand_total, i.paid_amount, (i.grand_total - i.paid_amount)
		%s ORDER BY %s LIMIT %d OFFSET %d`,
		base, SalesListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sales rows: %w", err)
	}
	defer rows.Close()

	var out []SalesRow
	for rows.Next() {
		var row SalesRow
		if err := rows.Scan(&row.InvoiceID, &row.Reference, &row.Date, &row.Customer,
			&row.Branch, &row.Status, &row.GrandTotal, &row.PaidAmount, &row.DueAmount); err != nil {
			return nil, 0, fmt.Errorf("scan sales row: %w", err)
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

func (r *repository) SalesSummary(ctx context.Context, f Filters) (SalesSummary, error) {
	cond, args := salesWhere(listquery.State{}, f)
	var s SalesSummary
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*),
			COALESCE(SUM(i.grand_total), 0),
			COALESCE(SUM(i.paid_amount), 0),
			COALESCE(SUM(i.grand_total - i.paid_amount), 0)
		FROM invoices i
		JOIN customers cu ON cu.id = i.customer_id
		WHERE `+cond, args...).
		Scan(&s.InvoiceCount, &s.TotalSales, &s.TotalPaid, &s.TotalDue)
	if err != nil {
		return SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	return s, nil
}

func purchaseWhere(q listquery.State, f Filters) (string, []any) {
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
	if !f.DateFrom.IsZero() {
		args = append(args, f.DateFrom)
		where = append(where, fmt.Sprintf("pu.date >= $%d", len(args)))
	}
	if !f.DateTo.IsZero() {
		args = append(args, f.DateTo)
		where = append(where, fmt.Sprintf("pu.date <= $%d", len(args)))
	}
	return strings.Join(where, " AND "), args
}

func (r *repository) PurchaseRows(ctx context.Context, q listquery.State, f Filters) ([]PurchaseRow, int, error) {
	cond, args := purchaseWhere(q, f)
	base := `FROM purchases pu
		JOIN suppliers s ON s.id = pu.supplier_id
		JOIN branches b ON b.id = pu.branch_id
		WHERE ` + cond

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase rows: %w", err)
	}

	query := fmt.Sprintf(`SELECT pu.id, pu.reference, pu.date, s.name, b.name, pu.status, pu.grand_total
		%s ORDER BY %s LIMIT %d OFFSET %d`,
		base, PurchasesListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("purchase rows: %w", err)
	}
	defer rows.Close()

	var out []PurchaseRow
	for rows.Next() {
		var row PurchaseRow
		if err := rows.Scan(&row.PurchaseID, &row.Reference, &row.Date, &row.Supplier,
			&row.Branch, &row.Status, &row.GrandTotal); err != nil {
			return nil, 0, fmt.Errorf("scan purchase row: %w", err)
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

func (r *repository) PurchaseSummary(ctx context.Context, f Filters) (PurchaseSummary, error) {
	cond, args := purchaseWhere(listquery.State{}, f)
	var s PurchaseSummary
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*),
			COALESCE(SUM(pu.grand_total), 0),
			COUNT(*) FILTER (WHERE pu.status = 'received')
		FROM purchases pu
		JOIN suppliers s ON s.id = pu.supplier_id
		WHERE `+cond, args...).
		Scan(&s.PurchaseCount, &s.TotalPurchases, &s.ReceivedCount)
	if err != nil {
		return PurchaseSummary{}, fmt.Errorf("purchase summary: %w", err)
	}
	return s, nil
}

func stockWhere(q listquery.State, f Filters) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args)))
	}
	if f.BranchID > 0 {
		args = append(args, f.BranchID)
		where = append(where, fmt.Sprintf("bs.branch_id = $%d", len(args)))
	}
	return strings.Join(where, " AND "), args
}

func (r *repository) StockRows(ctx context.Context, q listquery.State, f Filters) ([]StockRow, int, error) {
	cond, args := stockWhere(q, f)
	base := `FROM branch_stocks bs
		JOIN products p ON p.id = bs.product_id
		JOIN categories c ON c.id = p.category_id
		JOIN branches b ON b.id = bs.branch_id
		WHERE ` + cond

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock rows: %w", err)
	}

	query := fmt.Sprintf(`SELECT p.id, p.name, c.name, b.name, bs.quantity, p.alert_qty,
			(bs.quantity <= p.alert_qty)
		%s ORDER BY %s LIMIT %d OFFSET %d`,
		base, StockListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("stock rows: %w", err)
	}
	defer rows.Close()

	var out []StockRow
	for rows.Next() {
		var row StockRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Category, &row.Branch,
			&row.Quantity, &row.AlertQty, &row.LowStock); err != nil {
			return nil, 0, fmt.Errorf("scan stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

func (r *repository) StockSummary(ctx context.Context, f Filters) (StockSummary, error) {
	cond, args := stockWhere(listquery.State{}, f)
	var s StockSummary
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT p.id),
			COALESCE(SUM(bs.quantity), 0),
			COUNT(*) FILTER (WHERE bs.quantity <= p.alert_qty)
		FROM branch_stocks bs
		JOIN products p ON p.id = bs.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE `+cond, args...).
		Scan(&s.ProductCount, &s.TotalQuantity, &s.LowStockCount)
	if err != nil {
		return StockSummary{}, fmt.Errorf("stock summary: %w", err)
	}
	return s, nil
}
