package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Service verifies credentials and resolves accounts.
type Service struct {
	repo *repository
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{repo: &repository{pool: pool}}
}

// Authenticate checks email+password and returns the account on success.
// Disabled accounts fail the same way as wrong passwords.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	creds, err := s.repo.findByEmail(ctx, email)
	if err != nil {
		return Account{}, err
	}
	if !creds.Active {
		return Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return Account{ID: creds.ID, Name: creds.Name, Email: creds.Email, RoleID: creds.RoleID}, nil
}

// Lookup resolves the account behind an authenticated session.
func (s *Service) Lookup(ctx context.Context, userID int64) (Account, error) {
	creds, err := s.repo.findByID(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	return Account{ID: creds.ID, Name: creds.Name, Email: creds.Email, RoleID: creds.RoleID}, nil
}
