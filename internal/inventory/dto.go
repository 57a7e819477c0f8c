package inventory

import "time"

// AdjustmentInput creates a stock adjustment.
type AdjustmentInput struct {
	Date      time.Time `json:"date" validate:"required"`
	BranchID  int64     `json:"branchId" validate:"required,gt=0"`
	ProductID int64     `json:"productId" validate:"required,gt=0"`
	Direction string    `json:"direction" validate:"required,oneof=add subtract"`
	Quantity  float64   `json:"quantity" validate:"required,gt=0"`
	Reason    string    `json:"reason" validate:"max=500"`
}

// TransferInput creates a stock transfer between two branches.
type TransferInput struct {
	Date         time.Time `json:"date" validate:"required"`
	FromBranchID int64     `json:"fromBranchId" validate:"required,gt=0"`
	ToBranchID   int64     `json:"toBranchId" validate:"required,gt=0,nefield=FromBranchID"`
	ProductID    int64     `json:"productId" validate:"required,gt=0"`
	Quantity     float64   `json:"quantity" validate:"required,gt=0"`
	Note         string    `json:"note" validate:"max=500"`
}

// ReturnInput creates a sales return against an invoice.
type ReturnInput struct {
	Date      time.Time `json:"date" validate:"required"`
	InvoiceID int64     `json:"invoiceId" validate:"required,gt=0"`
	ProductID int64     `json:"productId" validate:"required,gt=0"`
	Quantity  float64   `json:"quantity" validate:"required,gt=0"`
	Reason    string    `json:"reason" validate:"max=500"`
}
