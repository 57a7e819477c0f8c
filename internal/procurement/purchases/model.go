package purchases

import (
	"time"

	"github.com/storelane/storelane/internal/listquery"
)

// Purchase statuses. Stock only moves when a purchase transitions to
// received.
const (
	StatusOrdered  = "ordered"
	StatusPending  = "pending"
	StatusReceived = "received"
)

// Purchase is a supplier order. Receiving a purchase increases branch
// stock for every line.
type Purchase struct {
	ID           int64          `json:"id"`
	Reference    string         `json:"reference"`
	Date         time.Time      `json:"date"`
	SupplierID   int64          `json:"supplierId"`
	SupplierName string         `json:"supplierName"`
	BranchID     int64          `json:"branchId"`
	BranchName   string         `json:"branchName"`
	Status       string         `json:"status"`
	GrandTotal   float64        `json:"grandTotal"`
	Lines        []PurchaseLine `json:"lines,omitempty"`
}

// PurchaseLine is one priced row of a purchase.
type PurchaseLine struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	TaxPercent      float64 `json:"taxPercent"`
	Total           float64 `json:"total"`
}

// ListFilters carries the purchase-specific list filters.
type ListFilters struct {
	BranchID   int64
	SupplierID int64
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
}

// ListConfig drives the purchases list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Reference", Field: "reference", Expr: "pu.reference"},
		{Label: "Date", Field: "date", Expr: "pu.date"},
		{Label: "Supplier", Field: "supplier", Expr: "s.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Status", Field: "status", Expr: "pu.status"},
		{Label: "Grand Total", Field: "grandTotal", Expr: "pu.grand_total"},
		{Label: "Actions"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}
