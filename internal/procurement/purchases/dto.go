package purchases

import "time"

// PurchaseInput is the create/update payload. Status defaults to ordered;
// received purchases are made through the receive endpoint so stock moves
// exactly once.
type PurchaseInput struct {
	Date       time.Time   `json:"date" validate:"required"`
	SupplierID int64       `json:"supplierId" validate:"required,gt=0"`
	BranchID   int64       `json:"branchId" validate:"required,gt=0"`
	Status     string      `json:"status" validate:"omitempty,oneof=ordered pending"`
	Lines      []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// LineInput is one row of a purchase payload.
type LineInput struct {
	ProductID       int64   `json:"productId" validate:"required,gt=0"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	TaxPercent      float64 `json:"taxPercent" validate:"gte=0,lte=100"`
}
