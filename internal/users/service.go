package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Service applies user management rules over the repository. Capability
// caches are invalidated whenever a user's role or active flag may have
// changed.
type Service struct {
	repo     Repository
	caps     *rbac.Service
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, caps *rbac.Service) *Service {
	return &Service{repo: repo, caps: caps, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, q listquery.State) ([]User, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	if err := s.checkInput(input); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		Name:     input.Name,
		Email:    input.Email,
		RoleID:   input.RoleID,
		BranchID: input.BranchID,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	id, err := s.repo.Create(ctx, u, string(hash))
	if err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (User, error) {
	if id <= 0 {
		return User{}, httpx.ErrNotFound
	}
	if err := s.checkInput(input); err != nil {
		return User{}, err
	}

	var hash string
	if input.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	u := User{
		ID:       id,
		Name:     input.Name,
		Email:    input.Email,
		RoleID:   input.RoleID,
		BranchID: input.BranchID,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Update(ctx, u, hash); err != nil {
		return User{}, err
	}
	s.caps.InvalidateUser(ctx, id)
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.caps.InvalidateUser(ctx, id)
	return nil
}

func (s *Service) checkInput(input any) error {
	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, invalid[0].Field())
		}
		return fmt.Errorf("%w: invalid user", httpx.ErrValidation)
	}
	return nil
}
