package quotations

import (
	"time"

	"github.com/storelane/storelane/internal/listquery"
)

// Quotation statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// Quotation is a priced offer that has not become an invoice yet.
type Quotation struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	Date         time.Time       `json:"date"`
	CustomerID   int64           `json:"customerId"`
	CustomerName string          `json:"customerName"`
	BranchID     int64           `json:"branchId"`
	BranchName   string          `json:"branchName"`
	Status       string          `json:"status"`
	GrandTotal   float64         `json:"grandTotal"`
	Lines        []QuotationLine `json:"lines,omitempty"`
}

// QuotationLine is one priced row of a quotation.
type QuotationLine struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	TaxPercent      float64 `json:"taxPercent"`
	Total           float64 `json:"total"`
}

// ListFilters carries the quotation-specific list filters.
type ListFilters struct {
	BranchID   int64
	CustomerID int64
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
}

// ListConfig drives the quotations list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Reference", Field: "reference", Expr: "q.reference"},
		{Label: "Date", Field: "date", Expr: "q.date"},
		{Label: "Customer", Field: "customer", Expr: "cu.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Status", Field: "status", Expr: "q.status"},
		{Label: "Grand Total", Field: "grandTotal", Expr: "q.grand_total"},
		{Label: "Actions"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}
