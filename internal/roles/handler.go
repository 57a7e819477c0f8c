package roles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Handler serves the roles REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapRoleView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapRoleView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapRoleView)).Get("/{id}/permissions", h.Permissions)
	r.With(h.rbac.Require(rbac.CapRoleCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapRoleEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapRoleEdit)).Put("/{id}/permissions", h.SetPermissions)
	r.With(h.rbac.Require(rbac.CapRoleDelete)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListConfig.Decode(r.URL.Query())

	items, total, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching role")
		return
	}
	if items == nil {
		items = []Role{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching role")
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	caps, err := h.service.Permissions(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching role")
		return
	}
	if caps == nil {
		caps = []rbac.Capability{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"capabilities": caps})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input RoleInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create role", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating role")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var input RoleInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update role", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating role")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var input PermissionsInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	caps, err := h.service.SetPermissions(r.Context(), id, input)
	if err != nil {
		h.logger.Error("set role permissions", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"capabilities": caps})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete role", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
