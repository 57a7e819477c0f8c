package customers

import "github.com/storelane/storelane/internal/listquery"

// Customer represents a billing counterparty.
type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Company     string  `json:"company"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	TaxNumber   string  `json:"taxNumber"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"creditLimit"`
}

// ListConfig drives the customers list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Name", Field: "name"},
		{Label: "Company", Field: "company"},
		{Label: "Email", Field: "email"},
		{Label: "Phone", Field: "phone"},
		{Label: "Tax Number", Field: "tax_number"},
		{Label: "Credit Limit", Field: "credit_limit"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
