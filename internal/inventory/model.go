package inventory

import (
	"time"

	"github.com/storelane/storelane/internal/listquery"
)

// Adjustment directions.
const (
	DirectionAdd      = "add"
	DirectionSubtract = "subtract"
)

// StockAdjustment is a manual correction of one product's stock at one
// branch.
type StockAdjustment struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	BranchID    int64     `json:"branchId"`
	BranchName  string    `json:"branchName"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	Direction   string    `json:"direction"`
	Quantity    float64   `json:"quantity"`
	Reason      string    `json:"reason"`
}

// StockTransfer moves quantity of one product between two branches.
type StockTransfer struct {
	ID             int64     `json:"id"`
	Date           time.Time `json:"date"`
	FromBranchID   int64     `json:"fromBranchId"`
	FromBranchName string    `json:"fromBranchName"`
	ToBranchID     int64     `json:"toBranchId"`
	ToBranchName   string    `json:"toBranchName"`
	ProductID      int64     `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       float64   `json:"quantity"`
	Note           string    `json:"note"`
}

// SalesReturn restocks goods returned against an invoice.
type SalesReturn struct {
	ID               int64     `json:"id"`
	Date             time.Time `json:"date"`
	InvoiceID        int64     `json:"invoiceId"`
	InvoiceReference string    `json:"invoiceReference"`
	BranchID         int64     `json:"branchId"`
	BranchName       string    `json:"branchName"`
	ProductID        int64     `json:"productId"`
	ProductName      string    `json:"productName"`
	Quantity         float64   `json:"quantity"`
	Reason           string    `json:"reason"`
}

// AdjustmentListConfig drives the stock adjustments list view.
var AdjustmentListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Date", Field: "date", Expr: "a.date"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Product", Field: "product", Expr: "p.name"},
		{Label: "Direction", Field: "direction", Expr: "a.direction"},
		{Label: "Quantity", Field: "quantity", Expr: "a.quantity"},
		{Label: "Reason", Field: "reason", Expr: "a.reason"},
		{Label: "Actions"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}

// TransferListConfig drives the stock transfers list view.
var TransferListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Date", Field: "date", Expr: "t.date"},
		{Label: "From", Field: "fromBranch", Expr: "fb.name"},
		{Label: "To", Field: "toBranch", Expr: "tb.name"},
		{Label: "Product", Field: "product", Expr: "p.name"},
		{Label: "Quantity", Field: "quantity", Expr: "t.quantity"},
		{Label: "Actions"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}

// ReturnListConfig drives the sales returns list view.
var ReturnListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Date", Field: "date", Expr: "sr.date"},
		{Label: "Invoice", Field: "invoice", Expr: "i.reference"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Product", Field: "product", Expr: "p.name"},
		{Label: "Quantity", Field: "quantity", Expr: "sr.quantity"},
		{Label: "Reason", Field: "reason", Expr: "sr.reason"},
		{Label: "Actions"},
	},
	DefaultSort:  "date",
	DefaultOrder: listquery.OrderDesc,
}
