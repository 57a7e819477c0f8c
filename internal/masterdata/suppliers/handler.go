package suppliers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Handler serves the suppliers REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the supplier routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapSupplierView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapSupplierView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapSupplierCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapSupplierEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapSupplierDelete)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListConfig.Decode(r.URL.Query())

	items, total, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching supplier")
		return
	}
	if items == nil {
		items = []Supplier{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching supplier")
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), supplier)
	if err != nil {
		h.logger.Error("create supplier", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating supplier")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.service.Update(r.Context(), id, supplier); err != nil {
		h.logger.Error("update supplier", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating supplier")
		return
	}
	supplier.ID = id
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete supplier", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting supplier")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
