package invoices

import (
	"time"

	"github.com/storelane/storelane/internal/listquery"
)

// Invoice statuses, derived from the paid amount; never set directly.
const (
	StatusPaid    = "paid"
	StatusPartial = "partial"
	StatusDue     = "due"
)

// Invoice is a posted sale. Posting an invoice reduces branch stock for
// every line.
type Invoice struct {
	ID           int64         `json:"id"`
	Reference    string        `json:"reference"`
	Date         time.Time     `json:"date"`
	CustomerID   int64         `json:"customerId"`
	CustomerName string        `json:"customerName"`
	BranchID     int64         `json:"branchId"`
	BranchName   string        `json:"branchName"`
	Status       string        `json:"status"`
	GrandTotal   float64       `json:"grandTotal"`
	PaidAmount   float64       `json:"paidAmount"`
	Lines        []InvoiceLine `json:"lines,omitempty"`
}

// InvoiceLine is one priced row of an invoice.
type InvoiceLine struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	TaxPercent      float64 `json:"taxPercent"`
	Total           float64 `json:"total"`
}

// ListFilters carries the invoice-specific list filters.
type ListFilters struct {
	BranchID   int64
	CustomerID int64
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
}

// ListConfig drives the invoices list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Reference", Field: "reference", Expr: "i.reference"},
		{Label: "Date", Field: "date", Expr: "i.date"},
		{Label: "Customer", Field: "customer", Expr: "cu.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Status", Field: "status", Expr: "i.status"},
		{Label: "Grand Total", Field: "grandTotal", Expr: "i.grand_total"},
		{Label: "Paid", Field: "paidAmount", Expr: "i.paid_amount"},
		{Label: "Actions"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}

// DeriveStatus maps a paid amount onto the invoice status.
func DeriveStatus(grandTotal, paid float64) string {
	switch {
	case paid >= grandTotal && grandTotal > 0:
		return StatusPaid
	case paid > 0:
		return StatusPartial
	default:
		return StatusDue
	}
}
