package categories

import "github.com/storelane/storelane/internal/listquery"

// Category represents a product category.
type Category struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListConfig drives the categories list view: column labels in display
// order, the column→field sort map and the default ordering.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Code", Field: "code"},
		{Label: "Name", Field: "name"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
