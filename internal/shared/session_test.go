package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/internal/shared"
)

func newSessionManager(t *testing.T, ttl time.Duration) (*shared.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return shared.NewSessionManager(client, "test_session", "secret", ttl, false), mr
}

func requestWithCookies(t *testing.T, res *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	sm, _ := newSessionManager(t, time.Hour)
	ctx := context.Background()

	res := httptest.NewRecorder()
	created, err := sm.Create(ctx, res, 42)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	loaded, err := sm.Load(ctx, requestWithCookies(t, res))
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, int64(42), loaded.UserID)
}

func TestLoadWithoutCookie(t *testing.T) {
	sm, _ := newSessionManager(t, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := sm.Load(context.Background(), req)
	assert.ErrorIs(t, err, shared.ErrNoSession)
}

func TestLoadRejectsTamperedCookie(t *testing.T) {
	sm, _ := newSessionManager(t, time.Hour)
	ctx := context.Background()

	res := httptest.NewRecorder()
	created, err := sm.Create(ctx, res, 42)
	require.NoError(t, err)

	cookie := res.Result().Cookies()[0]
	// Swap the session ID while keeping the original signature.
	cookie.Value = "forged-id." + cookie.Value[len(created.ID)+1:]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err = sm.Load(ctx, req)
	assert.ErrorIs(t, err, shared.ErrNoSession)
}

func TestLoadAfterExpiry(t *testing.T) {
	sm, mr := newSessionManager(t, time.Minute)
	ctx := context.Background()

	res := httptest.NewRecorder()
	_, err := sm.Create(ctx, res, 42)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = sm.Load(ctx, requestWithCookies(t, res))
	assert.ErrorIs(t, err, shared.ErrNoSession)
}

func TestTouchExtendsLifetime(t *testing.T) {
	sm, mr := newSessionManager(t, time.Minute)
	ctx := context.Background()

	res := httptest.NewRecorder()
	created, err := sm.Create(ctx, res, 42)
	require.NoError(t, err)

	mr.FastForward(45 * time.Second)
	require.NoError(t, sm.Touch(ctx, created))
	mr.FastForward(45 * time.Second)

	loaded, err := sm.Load(ctx, requestWithCookies(t, res))
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
}

func TestDestroyRemovesSessionAndExpiresCookie(t *testing.T) {
	sm, _ := newSessionManager(t, time.Hour)
	ctx := context.Background()

	created := httptest.NewRecorder()
	sess, err := sm.Create(ctx, created, 42)
	require.NoError(t, err)

	destroyed := httptest.NewRecorder()
	require.NoError(t, sm.Destroy(ctx, destroyed, sess))

	expired := destroyed.Result().Cookies()[0]
	assert.Equal(t, -1, expired.MaxAge)

	_, err = sm.Load(ctx, requestWithCookies(t, created))
	assert.ErrorIs(t, err, shared.ErrNoSession)
}
