package quotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/sales/shared"
)

// Service applies quotation business rules over the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, q listquery.State, filters ListFilters) ([]Quotation, int, error) {
	return s.repo.List(ctx, q, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Quotation, error) {
	if id <= 0 {
		return Quotation{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create prices the lines, assigns the next reference and stores the
// quotation.
func (s *Service) Create(ctx context.Context, input QuotationInput) (Quotation, error) {
	quotation, err := s.build(input)
	if err != nil {
		return Quotation{}, err
	}

	quotation.Reference, err = s.repo.NextReference(ctx)
	if err != nil {
		return Quotation{}, err
	}

	id, err := s.repo.Create(ctx, quotation)
	if err != nil {
		return Quotation{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update re-prices and replaces an existing quotation. The reference is
// immutable once assigned.
func (s *Service) Update(ctx context.Context, id int64, input QuotationInput) (Quotation, error) {
	if id <= 0 {
		return Quotation{}, httpx.ErrNotFound
	}
	quotation, err := s.build(input)
	if err != nil {
		return Quotation{}, err
	}
	quotation.ID = id

	if err := s.repo.Update(ctx, quotation); err != nil {
		return Quotation{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) build(input QuotationInput) (Quotation, error) {
	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return Quotation{}, fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, invalid[0].Field())
		}
		return Quotation{}, fmt.Errorf("%w: invalid quotation", httpx.ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = StatusPending
	}

	quotation := Quotation{
		Date:       input.Date,
		CustomerID: input.CustomerID,
		BranchID:   input.BranchID,
		Status:     status,
	}
	for _, l := range input.Lines {
		_, _, total := shared.CalculateLineTotals(l.Quantity, l.UnitPrice, l.DiscountPercent, l.TaxPercent)
		quotation.Lines = append(quotation.Lines, QuotationLine{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Total:           total,
		})
		quotation.GrandTotal += total
	}
	return quotation, nil
}
