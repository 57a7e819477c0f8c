package rbac_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

func seedCapabilities(t *testing.T, mr *miniredis.Miniredis, userID string, caps []rbac.Capability) {
	t.Helper()
	payload, err := json.Marshal(caps)
	require.NoError(t, err)
	require.NoError(t, mr.Set("caps:"+userID, string(payload)))
}

func newMiddleware(t *testing.T) (rbac.Middleware, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	service := rbac.NewService(nil, client, time.Minute, nil)
	return rbac.Middleware{Service: service}, mr
}

func doRequest(mw rbac.Middleware, cap rbac.Capability, sess *shared.Session) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if sess != nil {
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	res := httptest.NewRecorder()
	mw.Require(cap)(next).ServeHTTP(res, req)
	return res
}

func TestRequireUnauthenticated(t *testing.T) {
	mw, _ := newMiddleware(t)

	res := doRequest(mw, rbac.CapCategoryView, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "authentication required")
}

func TestRequireMissingCapability(t *testing.T) {
	mw, mr := newMiddleware(t)
	seedCapabilities(t, mr, "7", []rbac.Capability{rbac.CapCategoryView})

	res := doRequest(mw, rbac.CapCategoryDelete, &shared.Session{ID: "s", UserID: 7})
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireGranted(t *testing.T) {
	mw, mr := newMiddleware(t)
	seedCapabilities(t, mr, "7", []rbac.Capability{rbac.CapCategoryView, rbac.CapCategoryDelete})

	res := doRequest(mw, rbac.CapCategoryDelete, &shared.Session{ID: "s", UserID: 7})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestInvalidateUserDropsCachedSet(t *testing.T) {
	mw, mr := newMiddleware(t)
	seedCapabilities(t, mr, "7", []rbac.Capability{rbac.CapCategoryView})

	mw.Service.InvalidateUser(context.Background(), 7)
	assert.False(t, mr.Exists("caps:7"))
}
