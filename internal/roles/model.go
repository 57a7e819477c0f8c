package roles

import "github.com/storelane/storelane/internal/listquery"

// Role groups capabilities. Users reference exactly one role.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserCount   int    `json:"userCount"`
}

// ListConfig drives the roles list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Name", Field: "name", Expr: "r.name"},
		{Label: "Description", Field: "description", Expr: "r.description"},
		{Label: "Users", Field: "userCount", Expr: "COUNT(u.id)"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
