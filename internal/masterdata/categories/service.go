package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Service applies category business rules over the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of categories with the total matching count.
func (s *Service) List(ctx context.Context, q listquery.State) ([]Category, int, error) {
	return s.repo.List(ctx, q)
}

// Get returns a single category.
func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a category.
func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := validate(category); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, category)
}

// Update validates and replaces a category.
func (s *Service) Update(ctx context.Context, id int64, category Category) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := validate(category); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, category)
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validate(c Category) error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("%w: category code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", httpx.ErrValidation)
	}
	return nil
}
