package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

// Repository is the persistence boundary for users.
type Repository interface {
	List(ctx context.Context, q listquery.State) ([]User, int, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, u User, passwordHash string) (int64, error)
	Update(ctx context.Context, u User, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `u.id, u.name, u.email, u.role_id, r.name,
	u.branch_id, b.name, u.is_active`

func (r *repository) List(ctx context.Context, q listquery.State) ([]User, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(u.name ILIKE $%d OR u.email ILIKE $%d)", len(args), len(args)))
	}

	base := `FROM users u
		JOIN roles r ON r.id = u.role_id
		JOIN branches b ON b.id = u.branch_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d",
		userColumns, base, ListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.RoleName,
			&u.BranchID, &u.BranchName, &u.IsActive); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s
		FROM users u
		JOIN roles r ON r.id = u.role_id
		JOIN branches b ON b.id = u.branch_id
		WHERE u.id = $1`, userColumns), id).
		Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.RoleName,
			&u.BranchID, &u.BranchName, &u.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, u User, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO users
			(name, email, password_hash, role_id, branch_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		u.Name, u.Email, passwordHash, u.RoleID, u.BranchID, u.IsActive).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

// Update rewrites the user row. An empty passwordHash keeps the stored
// hash.
func (r *repository) Update(ctx context.Context, u User, passwordHash string) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if passwordHash == "" {
		tag, err = r.pool.Exec(ctx, `UPDATE users
			SET name = $2, email = $3, role_id = $4, branch_id = $5, is_active = $6
			WHERE id = $1`,
			u.ID, u.Name, u.Email, u.RoleID, u.BranchID, u.IsActive)
	} else {
		tag, err = r.pool.Exec(ctx, `UPDATE users
			SET name = $2, email = $3, role_id = $4, branch_id = $5, is_active = $6,
				password_hash = $7
			WHERE id = $1`,
			u.ID, u.Name, u.Email, u.RoleID, u.BranchID, u.IsActive, passwordHash)
	}
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, u.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: email already in use", httpx.ErrDuplicate)
	}
	return err
}
