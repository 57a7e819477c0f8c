package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Handler serves the products REST resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapProductView)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.CapProductView)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.CapProductView)).Get("/{id}/stocks", h.Stocks)
	r.With(h.rbac.Require(rbac.CapProductCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.CapProductEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.CapProductDelete)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := ListConfig.Decode(vals)

	var filters ListFilters
	filters.CategoryID, _ = strconv.ParseInt(vals.Get("categoryId"), 10, 64)
	filters.BranchID, _ = strconv.ParseInt(vals.Get("branchId"), 10, 64)

	items, total, err := h.service.List(r.Context(), q, filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching product")
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, "Error fetching product")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Stocks serves the per-branch quantity breakdown for one product.
func (h *Handler) Stocks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	stocks, err := h.service.BranchStocks(r.Context(), id)
	if err != nil {
		h.logger.Error("product branch stocks", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error fetching product")
		return
	}
	if stocks == nil {
		stocks = []BranchStock{}
	}
	httpx.List(w, stocks, len(stocks), nil)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating product")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var input ProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.service.Update(r.Context(), id, input); err != nil {
		h.logger.Error("update product", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error updating product")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete product", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err, "Error deleting product")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
