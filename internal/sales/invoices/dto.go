package invoices

import "time"

// InvoiceInput is the create/update payload.
type InvoiceInput struct {
	Date       time.Time   `json:"date" validate:"required"`
	CustomerID int64       `json:"customerId" validate:"required,gt=0"`
	BranchID   int64       `json:"branchId" validate:"required,gt=0"`
	PaidAmount float64     `json:"paidAmount" validate:"gte=0"`
	Lines      []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// LineInput is one row of an invoice payload.
type LineInput struct {
	ProductID       int64   `json:"productId" validate:"required,gt=0"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	TaxPercent      float64 `json:"taxPercent" validate:"gte=0,lte=100"`
}

// PaymentInput records an additional payment against an invoice.
type PaymentInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
