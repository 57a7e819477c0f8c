package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/app"
	"github.com/storelane/storelane/internal/auth"
	"github.com/storelane/storelane/internal/inventory"
	"github.com/storelane/storelane/internal/masterdata/branches"
	"github.com/storelane/storelane/internal/masterdata/categories"
	"github.com/storelane/storelane/internal/masterdata/products"
	"github.com/storelane/storelane/internal/masterdata/suppliers"
	"github.com/storelane/storelane/internal/platform/cache"
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

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "storelane_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	rbacService := rbac.NewService(pool, redisClient, cfg.CapabilityCacheTTL, logger)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	authService := auth.NewService(pool)
	authHandler := auth.NewHandler(logger, authService, sessionManager, rbacService)

	categoriesHandler := categories.NewHandler(logger, categories.NewService(categories.NewRepository(pool)), rbacMiddleware)
	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)), rbacMiddleware)
	branchesHandler := branches.NewHandler(logger, branches.NewService(branches.NewRepository(pool)), rbacMiddleware)
	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool)), rbacMiddleware)
	customersHandler := customers.NewHandler(logger, customers.NewService(customers.NewRepository(pool)), rbacMiddleware)
	quotationsHandler := quotations.NewHandler(logger, quotations.NewService(quotations.NewRepository(pool)), rbacMiddleware)
	invoicesHandler := invoices.NewHandler(logger, invoices.NewService(invoices.NewRepository(pool)), rbacMiddleware)
	purchasesHandler := purchases.NewHandler(logger, purchases.NewService(purchases.NewRepository(pool)), rbacMiddleware)
	inventoryHandler := inventory.NewHandler(logger, inventory.NewService(inventory.NewRepository(pool)), rbacMiddleware)
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(pool), rbacService), rbacMiddleware)
	rolesHandler := roles.NewHandler(logger, roles.NewService(roles.NewRepository(pool), rbacService), rbacMiddleware)

	reportsService := reports.NewService(reports.NewRepository(pool), redisClient, logger, cfg.ReportCacheTTL)
	reportsHandler := reports.NewHandler(logger, reportsService, rbacMiddleware)

	permissionsHandler := &rbac.PermissionsHandler{Middleware: rbacMiddleware}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		AuthHandler:        authHandler,
		CategoriesHandler:  categoriesHandler,
		ProductsHandler:    productsHandler,
		BranchesHandler:    branchesHandler,
		SuppliersHandler:   suppliersHandler,
		CustomersHandler:   customersHandler,
		QuotationsHandler:  quotationsHandler,
		InvoicesHandler:    invoicesHandler,
		PurchasesHandler:   purchasesHandler,
		InventoryHandler:   inventoryHandler,
		UsersHandler:       usersHandler,
		RolesHandler:       rolesHandler,
		ReportsHandler:     reportsHandler,
		PermissionsHandler: permissionsHandler,
		JobsHandler:        jobsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
