package purchases

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

// Handler serves the purchases REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the purchase routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapPurchaseView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapPurchaseView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapPurchaseCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapPurchaseEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapPurchaseEdit)).Post("/{id}/receive", h.Receive)
	r.With(h.rbac.Require(rbac.CapPurchaseDelete)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := ListConfig.Decode(vals)

	var filters ListFilters
	filters.BranchID, _ = strconv.ParseInt(vals.Get("branchId"), 10, 64)
	filters.SupplierID, _ = strconv.ParseInt(vals.Get("supplierId"), 10, 64)
	filters.Status = vals.Get("status")
	filters.DateFrom, filters.DateTo = shared.ParseDateRange(vals.Get)

	items, total, err := h.service.List(r.Context(), q, filters)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching purchase")
		return
	}
	if items == nil {
		items = []Purchase{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	purchase, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching purchase")
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input PurchaseInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create purchase", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating purchase")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	var input PurchaseInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update purchase", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating purchase")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	received, err := h.service.Receive(r.Context(), id)
	if err != nil {
		h.logger.Error("receive purchase", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating purchase")
		return
	}
	httpx.JSON(w, http.StatusOK, received)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete purchase", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting purchase")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
