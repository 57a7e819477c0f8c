package branches

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Handler serves the branches REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the branch routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapBranchView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapBranchView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapBranchCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapBranchEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapBranchDelete)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListConfig.Decode(r.URL.Query())

	items, total, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list branches", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching branch")
		return
	}
	if items == nil {
		items = []Branch{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	branch, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching branch")
		return
	}
	httpx.JSON(w, http.StatusOK, branch)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var branch Branch
	if err := httpx.DecodeJSON(r, &branch); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), branch)
	if err != nil {
		h.logger.Error("create branch", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating branch")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	var branch Branch
	if err := httpx.DecodeJSON(r, &branch); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.service.Update(r.Context(), id, branch); err != nil {
		h.logger.Error("update branch", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating branch")
		return
	}
	branch.ID = id
	httpx.JSON(w, http.StatusOK, branch)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete branch", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting branch")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
