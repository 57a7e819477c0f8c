package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/sales/shared"
)

// Service applies invoice business rules over the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, q listquery.State, filters ListFilters) ([]Invoice, int, error) {
	return s.repo.List(ctx, q, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Invoice, error) {
	if id <= 0 {
		return Invoice{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create prices the lines, assigns the next reference and posts the
// invoice, consuming branch stock.
func (s *Service) Create(ctx context.Context, input InvoiceInput) (Invoice, error) {
	invoice, err := s.build(input)
	if err != nil {
		return Invoice{}, err
	}

	invoice.Reference, err = s.repo.NextReference(ctx)
	if err != nil {
		return Invoice{}, err
	}

	id, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return Invoice{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update re-prices and replaces an existing invoice, restoring and
// re-consuming stock. The reference is immutable once assigned.
func (s *Service) Update(ctx context.Context, id int64, input InvoiceInput) (Invoice, error) {
	if id <= 0 {
		return Invoice{}, httpx.ErrNotFound
	}
	invoice, err := s.build(input)
	if err != nil {
		return Invoice{}, err
	}
	invoice.ID = id

	if err := s.repo.Update(ctx, invoice); err != nil {
		return Invoice{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// RecordPayment applies a payment and rederives the invoice status.
func (s *Service) RecordPayment(ctx context.Context, id int64, input PaymentInput) (Invoice, error) {
	if id <= 0 {
		return Invoice{}, httpx.ErrNotFound
	}
	if err := s.validate.Struct(input); err != nil {
		return Invoice{}, fmt.Errorf("%w: payment amount must be positive", httpx.ErrValidation)
	}
	return s.repo.RecordPayment(ctx, id, input.Amount)
}

func (s *Service) build(input InvoiceInput) (Invoice, error) {
	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return Invoice{}, fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, invalid[0].Field())
		}
		return Invoice{}, fmt.Errorf("%w: invalid invoice", httpx.ErrValidation)
	}

	invoice := Invoice{
		Date:       input.Date,
		CustomerID: input.CustomerID,
		BranchID:   input.BranchID,
		PaidAmount: input.PaidAmount,
	}
	for _, l := range input.Lines {
		_, _, total := shared.CalculateLineTotals(l.Quantity, l.UnitPrice, l.DiscountPercent, l.TaxPercent)
		invoice.Lines = append(invoice.Lines, InvoiceLine{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Total:           total,
		})
		invoice.GrandTotal += total
	}
	if invoice.PaidAmount > invoice.GrandTotal {
		return Invoice{}, fmt.Errorf("%w: paid amount exceeds grand total", httpx.ErrValidation)
	}
	invoice.Status = DeriveStatus(invoice.GrandTotal, invoice.PaidAmount)
	return invoice, nil
}
