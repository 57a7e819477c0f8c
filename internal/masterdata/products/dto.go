package products

// ProductInput is the create/update payload.
type ProductInput struct {
	SKU        string  `json:"sku" validate:"required,max=64"`
	Name       string  `json:"name" validate:"required,max=200"`
	CategoryID int64   `json:"categoryId" validate:"required,gt=0"`
	Brand      string  `json:"brand" validate:"max=100"`
	Unit       string  `json:"unit" validate:"max=20"`
	Cost       float64 `json:"cost" validate:"gte=0"`
	Price      float64 `json:"price" validate:"gte=0"`
	AlertQty   float64 `json:"alertQty" validate:"gte=0"`
}

// ListFilters carries the product-specific filters alongside the common
// list state.
type ListFilters struct {
	CategoryID int64
	BranchID   int64
}
