package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Service applies stock-movement business rules over the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) ListAdjustments(ctx context.Context, q listquery.State, branchID int64) ([]StockAdjustment, int, error) {
	return s.repo.ListAdjustments(ctx, q, branchID)
}

func (s *Service) CreateAdjustment(ctx context.Context, input AdjustmentInput) (StockAdjustment, error) {
	if err := s.check(input, "invalid adjustment"); err != nil {
		return StockAdjustment{}, err
	}
	return s.repo.CreateAdjustment(ctx, StockAdjustment{
		Date:      input.Date,
		BranchID:  input.BranchID,
		ProductID: input.ProductID,
		Direction: input.Direction,
		Quantity:  input.Quantity,
		Reason:    input.Reason,
	})
}

func (s *Service) ListTransfers(ctx context.Context, q listquery.State, branchID int64) ([]StockTransfer, int, error) {
	return s.repo.ListTransfers(ctx, q, branchID)
}

func (s *Service) CreateTransfer(ctx context.Context, input TransferInput) (StockTransfer, error) {
	if err := s.check(input, "invalid transfer"); err != nil {
		return StockTransfer{}, err
	}
	return s.repo.CreateTransfer(ctx, StockTransfer{
		Date:         input.Date,
		FromBranchID: input.FromBranchID,
		ToBranchID:   input.ToBranchID,
		ProductID:    input.ProductID,
		Quantity:     input.Quantity,
		Note:         input.Note,
	})
}

func (s *Service) ListReturns(ctx context.Context, q listquery.State, branchID int64) ([]SalesReturn, int, error) {
	return s.repo.ListReturns(ctx, q, branchID)
}

// CreateReturn restocks returned goods at the invoice's branch. The
// repository resolves the branch and enforces the sold-minus-returned cap
// under the invoice row lock.
func (s *Service) CreateReturn(ctx context.Context, input ReturnInput) (SalesReturn, error) {
	if err := s.check(input, "invalid return"); err != nil {
		return SalesReturn{}, err
	}
	return s.repo.CreateReturn(ctx, SalesReturn{
		Date:      input.Date,
		InvoiceID: input.InvoiceID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Reason:    input.Reason,
	})
}

func (s *Service) check(input any, fallback string) error {
	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, invalid[0].Field())
		}
		return fmt.Errorf("%w: %s", httpx.ErrValidation, fallback)
	}
	return nil
}
