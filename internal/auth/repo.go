package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

func (r *repository) findByEmail(ctx context.Context, email string) (credentials, error) {
	const query = `
		SELECT id, name, email, password_hash, role_id, is_active
		FROM users
		WHERE lower(email) = lower($1)`

	var c credentials
	err := r.pool.QueryRow(ctx, query, email).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.RoleID, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credentials{}, ErrInvalidCredentials
		}
		return credentials{}, fmt.Errorf("auth: find by email: %w", err)
	}
	return c, nil
}

func (r *repository) findByID(ctx context.Context, id int64) (credentials, error) {
	const query = `
		SELECT id, name, email, password_hash, role_id, is_active
		FROM users
		WHERE id = $1`

	var c credentials
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.RoleID, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credentials{}, ErrInvalidCredentials
		}
		return credentials{}, fmt.Errorf("auth: find by id: %w", err)
	}
	return c, nil
}
