package branches

import (
	"context"
	"fmt"
	"strings"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Service applies branch business rules over the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q listquery.State) ([]Branch, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Branch, error) {
	if id <= 0 {
		return Branch{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, branch Branch) (Branch, error) {
	if err := validate(branch); err != nil {
		return Branch{}, err
	}
	return s.repo.Create(ctx, branch)
}

func (s *Service) Update(ctx context.Context, id int64, branch Branch) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := validate(branch); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, branch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validate(b Branch) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: branch name is required", httpx.ErrValidation)
	}
	return nil
}
