package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
)

// Handler serves the stock movement resources: adjustments, transfers and
// sales returns are mounted as three sibling REST resources.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountAdjustmentRoutes registers the stock adjustment routes.
func (h *Handler) MountAdjustmentRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapStockView)).Get("/", h.ListAdjustments)
	r.With(h.rbac.Require(rbac.CapStockAdjust)).Post("/", h.CreateAdjustment)
}

// MountTransferRoutes registers the stock transfer routes.
func (h *Handler) MountTransferRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapStockView)).Get("/", h.ListTransfers)
	r.With(h.rbac.Require(rbac.CapStockTransfer)).Post("/", h.CreateTransfer)
}

// MountReturnRoutes registers the sales return routes.
func (h *Handler) MountReturnRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapStockView)).Get("/", h.ListReturns)
	r.With(h.rbac.Require(rbac.CapStockReturn)).Post("/", h.CreateReturn)
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := AdjustmentListConfig.Decode(vals)
	branchID, _ := strconv.ParseInt(vals.Get("branchId"), 10, 64)

	items, total, err := h.service.ListAdjustments(r.Context(), q, branchID)
	if err != nil {
		h.logger.Error("list adjustments", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching stock adjustment")
		return
	}
	if items == nil {
		items = []StockAdjustment{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var input AdjustmentInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.CreateAdjustment(r.Context(), input)
	if err != nil {
		h.logger.Error("create adjustment", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating stock adjustment")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := TransferListConfig.Decode(vals)
	branchID, _ := strconv.ParseInt(vals.Get("branchId"), 10, 64)

	items, total, err := h.service.ListTransfers(r.Context(), q, branchID)
	if err != nil {
		h.logger.Error("list transfers", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching stock transfer")
		return
	}
	if items == nil {
		items = []StockTransfer{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var input TransferInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.CreateTransfer(r.Context(), input)
	if err != nil {
		h.logger.Error("create transfer", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating stock transfer")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := ReturnListConfig.Decode(vals)
	branchID, _ := strconv.ParseInt(vals.Get("branchId"), 10, 64)

	items, total, err := h.service.ListReturns(r.Context(), q, branchID)
	if err != nil {
		h.logger.Error("list returns", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching sales return")
		return
	}
	if items == nil {
		items = []SalesReturn{}
	}
	httpx.List(w, items, total, nil)
}

func (h *Handler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	var input ReturnInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.CreateReturn(r.Context(), input)
	if err != nil {
		h.logger.Error("create return", slog.Any("error", err))
		httpx.RespondError(w, err, "Error creating sales return")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}
