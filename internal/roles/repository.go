package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/db"
	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Repository is the persistence boundary for roles and their capability
// grants.
type Repository interface {
	List(ctx context.Context, q listquery.State) ([]Role, int, error)
	Get(ctx context.Context, id int64) (Role, error)
	Create(ctx context.Context, role Role) (int64, error)
	Update(ctx context.Context, role Role) error
	Delete(ctx context.Context, id int64) error
	Permissions(ctx context.Context, id int64) ([]rbac.Capability, error)
	SetPermissions(ctx context.Context, id int64, caps []rbac.Capability) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, q listquery.State) ([]Role, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("r.name ILIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM roles r WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}

	query := fmt.Sprintf(`SELECT r.id, r.name, r.description, COUNT(u.id)
		FROM roles r
		LEFT JOIN users u ON u.role_id = r.id
		WHERE %s
		GROUP BY r.id
		ORDER BY %s LIMIT %d OFFSET %d`,
		cond, ListConfig.OrderBy(q), q.Limit(), q.Offset())
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.UserCount); err != nil {
			return nil, 0, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, role)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT r.id, r.name, r.description, COUNT(u.id)
		FROM roles r
		LEFT JOIN users u ON u.role_id = r.id
		WHERE r.id = $1
		GROUP BY r.id`, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.UserCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, fmt.Errorf("%w: role %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Role{}, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (r *repository) Create(ctx context.Context, role Role) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO roles (name, description)
		VALUES ($1, $2) RETURNING id`, role.Name, role.Description).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, role Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE roles SET name = $2, description = $3 WHERE id = $1`,
		role.ID, role.Name, role.Description)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: role %d", httpx.ErrNotFound, role.ID)
	}
	return nil
}

// Delete refuses to remove a role that still has users.
func (r *repository) Delete(ctx context.Context, id int64) error {
	var users int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&users); err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if users > 0 {
		return fmt.Errorf("%w: role still has %d users", httpx.ErrValidation, users)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
			return fmt.Errorf("delete role permissions: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: role %d", httpx.ErrNotFound, id)
		}
		return nil
	})
}

func (r *repository) Permissions(ctx context.Context, id int64) ([]rbac.Capability, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT p.code
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.code`, id)
	if err != nil {
		return nil, fmt.Errorf("role permissions: %w", err)
	}
	defer rows.Close()

	var caps []rbac.Capability
	for rows.Next() {
		var c rbac.Capability
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		caps = append(caps, c)
	}
	return caps, rows.Err()
}

// SetPermissions replaces the role's grants with exactly the given set.
func (r *repository) SetPermissions(ctx context.Context, id int64, caps []rbac.Capability) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
			return fmt.Errorf("clear role permissions: %w", err)
		}
		for _, c := range caps {
			_, err := tx.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id)
				SELECT $1, p.id FROM permissions p WHERE p.code = $2`, id, string(c))
			if err != nil {
				return fmt.Errorf("grant %s: %w", c, err)
			}
		}
		return nil
	})
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: role name already exists", httpx.ErrDuplicate)
	}
	return err
}
