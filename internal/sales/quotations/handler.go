package quotations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

// Handler serves the quotations REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the quotation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapQuotationView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapQuotationView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapQuotationCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapQuotationEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapQuotationDelete)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := ListConfig.Decode(vals)

	var filters ListFilters
	filters.BranchID, _ = strconv.ParseInt(vals.Get("branchId"), 10, 64)
	filters.CustomerID, _ = strconv.ParseInt(vals.Get("customerId"), 10, 64)
	filters.Status = vals.Get("status")
	filters.DateFrom, filters.DateTo = shared.ParseDateRange(vals.Get)

	items, total, err := h.service.List(r.Context(), q, filters)
	if err != nil {
		h.logger.Error("list quotations", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching quotation")
		return
	}
	if items == nil {
		items = []Quotation{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid quotation ID")
		return
	}

	quotation, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching quotation")
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input QuotationInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create quotation", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating quotation")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid quotation ID")
		return
	}

	var input QuotationInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update quotation", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating quotation")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid quotation ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete quotation", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting quotation")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
