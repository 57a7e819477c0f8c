package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "caps:"

// Service resolves the effective capability set for a user. Lookups hit a
// short-lived Redis cache; role mutations invalidate the whole cache because
// a role change affects an unknown set of users.
type Service struct {
	pool   *pgxpool.Pool
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(pool *pgxpool.Pool, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{pool: pool, client: client, ttl: ttl, logger: logger}
}

// EffectiveCapabilities returns the tokens granted to the user through their
// role. A cache failure degrades to a database read, never to a denial.
func (s *Service) EffectiveCapabilities(ctx context.Context, userID int64) (Set, error) {
	if cached, ok := s.fromCache(ctx, userID); ok {
		return cached, nil
	}

	const query = `
		SELECT p.token
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN users u ON u.role_id = rp.role_id
		WHERE u.id = $1 AND u.is_active`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("rbac: query capabilities: %w", err)
	}
	defer rows.Close()

	var caps []Capability
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("rbac: scan capability: %w", err)
		}
		caps = append(caps, Capability(token))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rbac: iterate capabilities: %w", err)
	}

	s.toCache(ctx, userID, caps)
	return NewSet(caps), nil
}

// Invalidate drops every cached capability set. Called after role or
// assignment mutations.
func (s *Service) Invalidate(ctx context.Context) {
	if s.client == nil {
		return
	}
	keys, err := s.client.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil && s.logger != nil {
		s.logger.Warn("rbac cache invalidate", slog.Any("error", err))
	}
}

// InvalidateUser drops one user's cached capability set.
func (s *Service) InvalidateUser(ctx context.Context, userID int64) {
	if s.client == nil {
		return
	}
	if err := s.client.Del(ctx, s.cacheKey(userID)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("rbac cache invalidate user", slog.Any("error", err), slog.Int64("user_id", userID))
	}
}

func (s *Service) fromCache(ctx context.Context, userID int64) (Set, bool) {
	if s.client == nil {
		return nil, false
	}
	payload, err := s.client.Get(ctx, s.cacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("rbac cache read", slog.Any("error", err))
		}
		return nil, false
	}
	var caps []Capability
	if err := json.Unmarshal(payload, &caps); err != nil {
		return nil, false
	}
	return NewSet(caps), true
}

func (s *Service) toCache(ctx context.Context, userID int64, caps []Capability) {
	if s.client == nil {
		return
	}
	payload, err := json.Marshal(caps)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, s.cacheKey(userID), payload, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Warn("rbac cache write", slog.Any("error", err))
	}
}

func (s *Service) cacheKey(userID int64) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, userID)
}
