package quotations

import "time"

// QuotationInput is the create/update payload. Line totals are computed
// server-side; client-provided totals are ignored.
type QuotationInput struct {
	Date       time.Time   `json:"date" validate:"required"`
	CustomerID int64       `json:"customerId" validate:"required,gt=0"`
	BranchID   int64       `json:"branchId" validate:"required,gt=0"`
	Status     string      `json:"status" validate:"omitempty,oneof=pending sent"`
	Lines      []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// LineInput is one row of a document payload.
type LineInput struct {
	ProductID       int64   `json:"productId" validate:"required,gt=0"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	TaxPercent      float64 `json:"taxPercent" validate:"gte=0,lte=100"`
}
