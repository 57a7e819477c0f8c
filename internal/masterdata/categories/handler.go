package categories

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Handler serves the categories REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapCategoryView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapCategoryView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapCategoryCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapCategoryEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapCategoryDelete)).Delete("/{id}", h.Delete)
}

// List serves a page of categories.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListConfig.Decode(r.URL.Query())

	items, total, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching category")
		return
	}
	if items == nil {
		items = []Category{}
	}
	httpx.List(w, items, total, nil)
}

// Show serves one category.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching category")
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

// Create stores a new category.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var category Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), category)
	if err != nil {
		h.logger.Error("create category", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating category")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update replaces an existing category.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var category Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.service.Update(r.Context(), id, category); err != nil {
		h.logger.Error("update category", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating category")
		return
	}
	category.ID = id
	httpx.JSON(w, http.StatusOK, category)
}

// Delete removes a category.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete category", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting category")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
