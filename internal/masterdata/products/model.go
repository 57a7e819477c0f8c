package products

import "github.com/storelane/storelane/internal/listquery"

// Product represents a sellable item. CategoryName and StockQty are joined
// for list display; they are not stored on the product row.
type Product struct {
	ID           int64   `json:"id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Brand        string  `json:"brand"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
	Price        float64 `json:"price"`
	AlertQty     float64 `json:"alertQty"`
	StockQty     float64 `json:"stockQty"`
}

// BranchStock is one product's quantity at one branch.
type BranchStock struct {
	BranchID   int64   `json:"branchId"`
	BranchName string  `json:"branchName"`
	Quantity   float64 `json:"quantity"`
}

// ListConfig drives the products list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "SKU", Field: "sku", Expr: "p.sku"},
		{Label: "Name", Field: "name", Expr: "p.name"},
		{Label: "Category", Field: "category", Expr: "c.name"},
		{Label: "Brand", Field: "brand", Expr: "p.brand"},
		{Label: "Cost", Field: "cost", Expr: "p.cost"},
		{Label: "Price", Field: "price", Expr: "p.price"},
		{Label: "Stock"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
