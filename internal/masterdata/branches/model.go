package branches

import "github.com/storelane/storelane/internal/listquery"

// Branch represents a store location.
type Branch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ListConfig drives the branches list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Name", Field: "name"},
		{Label: "Phone", Field: "phone"},
		{Label: "Email", Field: "email"},
		{Label: "Address"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
