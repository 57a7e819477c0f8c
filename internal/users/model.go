package users

import "github.com/storelane/storelane/internal/listquery"

// User is a console account. The password hash never leaves the package.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RoleID     int64  `json:"roleId"`
	RoleName   string `json:"roleName"`
	BranchID   int64  `json:"branchId"`
	BranchName string `json:"branchName"`
	IsActive   bool   `json:"isActive"`
}

// ListConfig drives the users list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Name", Field: "name", Expr: "u.name"},
		{Label: "Email", Field: "email", Expr: "u.email"},
		{Label: "Role", Field: "role", Expr: "r.name"},
		{Label: "Branch", Field: "branch", Expr: "b.name"},
		{Label: "Status", Field: "isActive", Expr: "u.is_active"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
