package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/storelane/storelane/internal/auth"
	"github.com/storelane/storelane/internal/inventory"
	"github.com/storelane/storelane/internal/masterdata/branches"
	"github.com/storelane/storelane/internal/masterdata/categories"
	"github.com/storelane/storelane/internal/masterdata/products"
	"github.com/storelane/storelane/internal/masterdata/suppliers"
	"github.com/storelane/storelane/internal/procurement/purchases"
	"github.com/storelane/storelane/internal/rbac"
	"github.com/storelane/storelane/internal/reports"
	"github.com/storelane/storelane/internal/roles"
	"github.com/storelane/storelane/internal/sales/customers"
	"github.com/storelane/storelane/internal/sales/invoices"
	"github.com/storelane/storelane/internal/sales/quotations"
	"github.com/storelane/storelane/internal/shared"
	"github.com/storelane/storelane/internal/users"
	"github.com/storelane/storelane/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler        *auth.Handler
	CategoriesHandler  *categories.Handler
	ProductsHandler    *products.Handler
	BranchesHandler    *branches.Handler
	SuppliersHandler   *suppliers.Handler
	CustomersHandler   *customers.Handler
	QuotationsHandler  *quotations.Handler
	InvoicesHandler    *invoices.Handler
	PurchasesHandler   *purchases.Handler
	InventoryHandler   *inventory.Handler
	UsersHandler       *users.Handler
	RolesHandler       *roles.Handler
	ReportsHandler     *reports.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobsHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router for the console API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/branches", params.BranchesHandler.MountRoutes)
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/quotations", params.QuotationsHandler.MountRoutes)
		r.Route("/invoices", params.InvoicesHandler.MountRoutes)
		r.Route("/purchases", params.PurchasesHandler.MountRoutes)
		r.Route("/stock-adjustments", params.InventoryHandler.MountAdjustmentRoutes)
		r.Route("/stock-transfers", params.InventoryHandler.MountTransferRoutes)
		r.Route("/sales-returns", params.InventoryHandler.MountReturnRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
