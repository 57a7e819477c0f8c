package reports

import (
	"time"

	"github.com/storelane/storelane/internal/listquery"
)

// SalesRow is one invoice line of the sales report.
type SalesRow struct {
	InvoiceID  int64     `json:"invoiceId"`
	Reference  string    `json:"reference"`
	Date       time.Time `json:"date"`
	Customer   string    `json:"customer"`
	Branch     string    `json:"branch"`
	Status     string    `json:"status"`
	GrandTotal float64   `json:"grandTotal"`
	PaidAmount float64   `json:"paidAmount"`
	DueAmount  float64   `json:"dueAmount"`
}

// SalesSummary is the aggregate block above the sales report table.
type SalesSummary struct {
	InvoiceCount int     `json:"invoiceCount"`
	TotalSales   float64 `json:"totalSales"`
	TotalPaid    float64 `json:"totalPaid"`
	TotalDue     float64 `json:"totalDue"`
}

// PurchaseRow is one purchase line of the purchases report.
type PurchaseRow struct {
	PurchaseID int64     `json:"purchaseId"`
	Reference  string    `json:"reference"`
	Date       time.Time `json:"date"`
	Supplier   string    `json:"supplier"`
	Branch     string    `json:"branch"`
	Status     string    `json:"status"`
	GrandTotal float64   `json:"grandTotal"`
}

// PurchaseSummary is the aggregate block above the purchases report table.
type PurchaseSummary struct {
	PurchaseCount  int     `json:"purchaseCount"`
	TotalPurchases float64 `json:"totalPurchases"`
	ReceivedCount  int     `json:"receivedCount"`
}

// StockRow is one product/branch line of the stock report.
type StockRow struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Category    string  `json:"category"`
	Branch      string  `json:"branch"`
	Quantity    float64 `json:"quantity"`
	AlertQty    float64 `json:"alertQty"`
	LowStock    bool    `json:"lowStock"`
}

// StockSummary is the aggregate block above the stock report table.
type StockSummary struct {
	ProductCount  int     `json:"productCount"`
	TotalQuantity float64 `json:"totalQuantity"`
	LowStockCount int     `json:"lowStockCount"`
}

// Filters narrows report rows. Zero values mean unfiltered.
type Filters struct {
	BranchID int64
	DateFrom time.Time
	DateTo   time.Time
}

// SalesListConfig drives the sales report list view.
var SalesListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Reference", Field: "reference", Expr: "i.reference"},
		{Label: "Date", Field: "date", Expr: "i.date"},
		{Label: "Customer", Field: "customer", Expr: "cu.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Status", Field: "status", Expr: "i.status"},
		{Label: "Total", Field: "grandTotal", Expr: "i.grand_total"},
		{Label: "Paid", Field: "paidAmount", Expr: "i.paid_amount"},
		{Label: "Due", Field: "dueAmount", Expr: "(i.grand_total - i.paid_amount)"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}

// PurchasesListConfig drives the purchases report list view.
var PurchasesListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Reference", Field: "reference", Expr: "pu.reference"},
		{Label: "Date", Field: "date", Expr: "pu.date"},
		{Label: "Supplier", Field: "supplier", Expr: "s.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Status", Field: "status", Expr: "pu.status"},
		{Label: "Total", Field: "grandTotal", Expr: "pu.grand_total"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}

// StockListConfig drives the stock report list view.
var StockListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Product", Field: "product", Expr: "p.name"},
		{Label: "Category", Field: "category", Expr: "c.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Quantity", Field: "quantity", Expr: "bs.quantity"},
		{Label: "Alert Qty", Field: "alertQty", Expr: "p.alert_qty"},
	},
	DefaultSort: "product",
}
