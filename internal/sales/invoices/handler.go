package invoices

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

// Handler serves the invoices REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapInvoiceView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapInvoiceView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapInvoiceCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapInvoiceEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapInvoiceEdit)).Post("/{id}/payments", h.RecordPayment)
	r.With(h.rbac.Require(rbac.CapInvoiceDelete)).Delete("/{id}", h.Delete)
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
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching invoice")
		return
	}
	if items == nil {
		items = []Invoice{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input InvoiceInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	var input InvoiceInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update invoice", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	var input PaymentInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.service.RecordPayment(r.Context(), id, input)
	if err != nil {
		h.logger.Error("record payment", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete invoice", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
