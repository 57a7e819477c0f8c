package suppliers

import "github.com/storelane/storelane/internal/listquery"

// Supplier represents a purchasing counterparty.
type Supplier struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Company    string `json:"company"`
	VATNumber  string `json:"vatNumber"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// ListConfig drives the suppliers list view.
var ListConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Name", Field: "name"},
		{Label: "Company", Field: "company"},
		{Label: "VAT Number", Field: "vat_number"},
		{Label: "Email", Field: "email"},
		{Label: "Phone", Field: "phone"},
		{Label: "City", Field: "city"},
		{Label: "Country", Field: "country"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}
