package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Service applies role management rules over the repository. Permission
// changes flush the whole capability cache since any user of the role is
// affected.
type Service struct {
	repo     Repository
	caps     *rbac.Service
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, caps *rbac.Service) *Service {
	return &Service{repo: repo, caps: caps, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, q listquery.State) ([]Role, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	if id <= 0 {
		return Role{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input RoleInput) (Role, error) {
	if err := s.checkInput(input); err != nil {
		return Role{}, err
	}
	id, err := s.repo.Create(ctx, Role{Name: input.Name, Description: input.Description})
	if err != nil {
		return Role{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, input RoleInput) (Role, error) {
	if id <= 0 {
		return Role{}, httpx.ErrNotFound
	}
	if err := s.checkInput(input); err != nil {
		return Role{}, err
	}
	if err := s.repo.Update(ctx, Role{ID: id, Name: input.Name, Description: input.Description}); err != nil {
		return Role{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.caps.Invalidate(ctx)
	return nil
}

func (s *Service) Permissions(ctx context.Context, id int64) ([]rbac.Capability, error) {
	if id <= 0 {
		return nil, httpx.ErrNotFound
	}
	return s.repo.Permissions(ctx, id)
}

// SetPermissions replaces the role's grants. Unknown capability codes are
// rejected rather than silently dropped.
func (s *Service) SetPermissions(ctx context.Context, id int64, input PermissionsInput) ([]rbac.Capability, error) {
	if id <= 0 {
		return nil, httpx.ErrNotFound
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: capabilities are required", httpx.ErrValidation)
	}

	known := make(map[rbac.Capability]bool, len(rbac.All()))
	for _, c := range rbac.All() {
		known[c] = true
	}
	caps := make([]rbac.Capability, 0, len(input.Capabilities))
	for _, raw := range input.Capabilities {
		c := rbac.Capability(raw)
		if !known[c] {
			return nil, fmt.Errorf("%w: unknown capability %q", httpx.ErrValidation, raw)
		}
		caps = append(caps, c)
	}

	if err := s.repo.SetPermissions(ctx, id, caps); err != nil {
		return nil, err
	}
	s.caps.Invalidate(ctx)
	return s.repo.Permissions(ctx, id)
}

func (s *Service) checkInput(input any) error {
	if err := s.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, invalid[0].Field())
		}
		return fmt.Errorf("%w: invalid role", httpx.ErrValidation)
	}
	return nil
}
