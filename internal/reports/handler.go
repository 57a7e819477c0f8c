package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/shared"
)

// Handler serves the report resources. Each report has a paged JSON view
// and a CSV export of the full filtered set.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.CapReportView)).Get("/sales", h.Sales)
	r.With(h.rbac.Require(rbac.CapReportView)).Get("/purchases", h.Purchases)
	r.With(h.rbac.Require(rbac.CapReportView)).Get("/stock", h.Stock)
	r.With(h.rbac.Require(rbac.CapReportExport)).Get("/sales/export", h.ExportSales)
	r.With(h.rbac.Require(rbac.CapReportExport)).Get("/purchases/export", h.ExportPurchases)
	r.With(h.rbac.Require(rbac.CapReportExport)).Get("/stock/export", h.ExportStock)
}

func filtersFrom(get func(string) string) Filters {
	var f Filters
	f.BranchID, _ = strconv.ParseInt(get("branchId"), 10, 64)
	f.DateFrom, f.DateTo = shared.ParseDateRange(get)
	return f
}

func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := SalesListConfig.Decode(vals)
	f := filtersFrom(vals.Get)

	rows, total, summary, err := h.service.Sales(r.Context(), q, f)
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching report")
		return
	}
	if rows == nil {
		rows = []SalesRow{}
	}
	httpx.List(w, rows, total, summary)
}

func (h *Handler) Purchases(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := PurchasesListConfig.Decode(vals)
	f := filtersFrom(vals.Get)

	rows, total, summary, err := h.service.Purchases(r.Context(), q, f)
	if err != nil {
		h.logger.Error("purchases report", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching report")
		return
	}
	if rows == nil {
		rows = []PurchaseRow{}
	}
	httpx.List(w, rows, total, summary)
}

func (h *Handler) Stock(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := StockListConfig.Decode(vals)
	f := filtersFrom(vals.Get)

	rows, total, summary, err := h.service.Stock(r.Context(), q, f)
	if err != nil {
		h.logger.Error("stock report", slog.Any("error", err))
		httpx.RespondError(w, err, "Error fetching report")
		return
	}
	if rows == nil {
		rows = []StockRow{}
	}
	httpx.List(w, rows, total, summary)
}

func (h *Handler) ExportSales(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := SalesListConfig.Decode(vals)
	f := filtersFrom(vals.Get)

	rows, err := h.service.SalesRows(r.Context(), q, f)
	if err != nil {
		h.logger.Error("export sales report", slog.Any("error", err))
		httpx.RespondError(w, err, "Error exporting report")
		return
	}
	summary, err := h.service.SalesSummaryOnly(r.Context(), f)
	if err != nil {
		h.logger.Error("export sales summary", slog.Any("error", err))
		httpx.RespondError(w, err, "Error exporting report")
		return
	}

	setCSVHeaders(w, "sales-report.csv")
	if err := writeSalesCSV(w, rows, summary, f); err != nil {
		h.logger.Error("write sales csv", slog.Any("error", err))
	}
}

func (h *Handler) ExportPurchases(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := PurchasesListConfig.Decode(vals)
	f := filtersFrom(vals.Get)

	rows, err := h.service.PurchaseRows(r.Context(), q, f)
	if err != nil {
		h.logger.Error("export purchases report", slog.Any("error", err))
		httpx.RespondError(w, err, "Error exporting report")
		return
	}
	summary, err := h.service.PurchaseSummaryOnly(r.Context(), f)
	if err != nil {
		h.logger.Error("export purchases summary", slog.Any("error", err))
		httpx.RespondError(w, err, "Error exporting report")
		return
	}

	setCSVHeaders(w, "purchases-report.csv")
	if err := writePurchasesCSV(w, rows, summary, f); err != nil {
		h.logger.Error("write purchases csv", slog.Any("error", err))
	}
}

func (h *Handler) ExportStock(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	q := StockListConfig.Decode(vals)
	f := filtersFrom(vals.Get)

	rows, err := h.service.StockRows(r.Context(), q, f)
	if err != nil {
		h.logger.Error("export stock report", slog.Any("error", err))
		httpx.RespondError(w, err, "Error exporting report")
		return
	}
	summary, err := h.service.StockSummaryOnly(r.Context(), f)
	if err != nil {
		h.logger.Error("export stock summary", slog.Any("error", err))
		httpx.RespondError(w, err, "Error exporting report")
		return
	}

	setCSVHeaders(w, "stock-report.csv")
	if err := writeStockCSV(w, rows, summary, f); err != nil {
		h.logger.Error("write stock csv", slog.Any("error", err))
	}
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
