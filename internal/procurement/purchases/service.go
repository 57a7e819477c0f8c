package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/sales/shared"
)

// Service applies purchase business rules over the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, q listquery.State, filters ListFilters) ([]Purchase, int, error) {
	return s.repo.List(ctx, q, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create prices the lines, assigns the next reference and stores the
// purchase as ordered. Stock is untouched until the purchase is received.
func (s *Service) Create(ctx context.Context, input PurchaseInput) (Purchase, error) {
	purchase, err := s.build(input)
	if err != nil {
		return Purchase{}, err
	}

	purchase.Reference, err = s.repo.NextReference(ctx)
	if err != nil {
		return Purchase{}, err
	}

	id, err := s.repo.Create(ctx, purchase)
	if err != nil {
		return Purchase{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update re-prices and replaces an unreceived purchase.
func (s *Service) Update(ctx context.Context, id int64, input PurchaseInput) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, httpx.ErrNotFound
	}
	purchase, err := s.build(input)
	if err != nil {
		return Purchase{}, err
	}
	purchase.ID = id

	if err := s.repo.Update(ctx, purchase); err != nil {
		return Purchase{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Receive marks a purchase received, adding its lines to branch stock.
func (s *Service) Receive(ctx context.Context, id int64) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, httpx.ErrNotFound
	}
	if err := s.repo.Receive(ctx, id); err != nil {
		return Purchase{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) build(input PurchaseInput) (Purchase, error) {
	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return Purchase{}, fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, invalid[0].Field())
		}
		return Purchase{}, fmt.Errorf("%w: invalid purchase", httpx.ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = StatusOrdered
	}

	purchase := Purchase{
		Date:       input.Date,
		SupplierID: input.SupplierID,
		BranchID:   input.BranchID,
		Status:     status,
	}
	for _, l := range input.Lines {
		_, _, total := shared.CalculateLineTotals(l.Quantity, l.UnitPrice, l.DiscountPercent, l.TaxPercent)
		purchase.Lines = append(purchase.Lines, PurchaseLine{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Total:           total,
		})
		purchase.GrandTotal += total
	}
	return purchase, nil
}
