package categories_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/masterdata/categories"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

type fakeRepo struct {
	items     []categories.Category
	total     int
	listErr   error
	lastQuery listquery.State
}

func (f *fakeRepo) List(ctx context.Context, q listquery.State) ([]categories.Category, int, error) {
	f.lastQuery = q
	return f.items, f.total, f.listErr
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (categories.Category, error) {
	return categories.Category{}, errors.New("not implemented")
}

func (f *fakeRepo) Create(ctx context.Context, c categories.Category) (categories.Category, error) {
	c.ID = 1
	return c, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, c categories.Category) error {
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

// newRouter mounts the categories handler behind an rbac middleware whose
// capability cache is pre-seeded, and injects an authenticated session.
func newRouter(t *testing.T, repo *fakeRepo, caps []rbac.Capability) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	payload, err := json.Marshal(caps)
	require.NoError(t, err)
	require.NoError(t, mr.Set("caps:7", string(payload)))

	rbacMW := rbac.Middleware{Service: rbac.NewService(nil, client, time.Minute, nil)}
	handler := categories.NewHandler(slog.New(slog.DiscardHandler), categories.NewService(repo), rbacMW)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &shared.Session{ID: "s", UserID: 7}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/categories", handler.MountRoutes)
	return r
}

func TestListEnvelope(t *testing.T) {
	repo := &fakeRepo{
		items: []categories.Category{{ID: 1, Code: "EL", Name: "Electronics"}},
		total: 41,
	}
	router := newRouter(t, repo, []rbac.Capability{rbac.CapCategoryView})

	req := httptest.NewRequest(http.MethodGet, "/categories?page=2&searchTerm=el&pageSize=20&sortField=code&sortOrder=desc", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Data  []categories.Category `json:"data"`
		Total int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 41, body.Total)

	assert.Equal(t, 2, repo.lastQuery.Page)
	assert.Equal(t, "el", repo.lastQuery.Search)
	assert.Equal(t, 20, repo.lastQuery.PageSize)
	assert.Equal(t, "code", repo.lastQuery.SortField)
	assert.Equal(t, listquery.OrderDesc, repo.lastQuery.SortOrder)
}

func TestListEmptyPageIsAnArray(t *testing.T) {
	router := newRouter(t, &fakeRepo{}, []rbac.Capability{rbac.CapCategoryView})

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"data":[]`)
}

func TestListFailureEnvelope(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("connection refused")}
	router := newRouter(t, repo, []rbac.Capability{rbac.CapCategoryView})

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusInternalServerError, res.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Error fetching category", body.Message)
}

func TestListRequiresCapability(t *testing.T) {
	router := newRouter(t, &fakeRepo{}, []rbac.Capability{rbac.CapProductView})

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
}
