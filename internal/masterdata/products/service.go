package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Service applies product business rules over the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, q listquery.State, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, q, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// BranchStocks returns the per-branch quantities for one product.
func (s *Service) BranchStocks(ctx context.Context, id int64) ([]BranchStock, error) {
	if id <= 0 {
		return nil, httpx.ErrNotFound
	}
	return s.repo.BranchStocks(ctx, id)
}

func (s *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return Product{}, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err))
	}
	return s.repo.Create(ctx, input)
}

func (s *Service) Update(ctx context.Context, id int64, input ProductInput) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err))
	}
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validationDetail(err error) string {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		return invalid[0].Field() + " is invalid"
	}
	return "invalid product"
}
