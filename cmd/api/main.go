package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/erp-service/internal/api/http"
	"github.com/spec-kit/erp-service/internal/api/http/handlers"
	"github.com/spec-kit/erp-service/internal/auth"
	"github.com/spec-kit/erp-service/internal/cache"
	"github.com/spec-kit/erp-service/internal/config"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/observability"
	"github.com/spec-kit/erp-service/internal/persistence"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
	"github.com/spec-kit/erp-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	clock := clockwork.NewRealClock()

	authorizer, err := buildAuthorizer(cfg.Authz)
	if err != nil {
		logger.Fatal("failed to load authorization policy", zap.Error(err))
	}

	registry := observability.NewRegistry()
	metrics := observability.NewMetrics(registry)

	dashboardCache := cache.NewDashboardCache(redis.Client, cfg.Dashboard.CacheTTL())

	dispatcher := events.NewInMemoryDispatcher(logger)
	dispatcher.SubscribeAll(metrics.CountEvent)
	// any domain change makes the cached dashboard stale
	dispatcher.SubscribeAll(func(ctx context.Context, _ events.Event) error {
		return dashboardCache.Invalidate(ctx)
	})
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))
	if forwarder := worker.StartEventForwarder(cfg.Kafka, dispatcher, logger); forwarder != nil {
		defer func() {
			if err := forwarder.Close(); err != nil {
				logger.Warn("closing kafka writer", zap.Error(err))
			}
		}()
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	leaveRepo := repository.NewLeaveRepository(pool)
	onboardingRepo := repository.NewOnboardingRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	warehouseRepo := repository.NewWarehouseRepository(pool)
	stockRepo := repository.NewStockRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	orderRepo := repository.NewPurchaseOrderRepository(pool)
	surveyRepo := repository.NewSurveyRepository(pool)

	revoked := cache.NewRevokedTokens(redis.Client, clock.Now)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), clock)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     userRepo,
		EmployeeRepo: employeeRepo,
		TokenManager: tokens,
		Revoker:      revoked,
		Logger:       logger,
	})
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPass); err != nil {
		logger.Fatal("failed to create bootstrap admin", zap.Error(err))
	}

	hrService := service.NewHRService(service.HRDependencies{
		DepartmentRepo: departmentRepo,
		EmployeeRepo:   employeeRepo,
		OnboardingRepo: onboardingRepo,
		Dispatcher:     dispatcher,
		Clock:          clock,
	})
	leaveService := service.NewLeaveService(cfg.Leave, service.LeaveDependencies{
		LeaveRepo:    leaveRepo,
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
		Clock:        clock,
	})
	inventoryService := service.NewInventoryService(service.InventoryDependencies{
		ProductRepo: productRepo,
		StockRepo:   stockRepo,
		Dispatcher:  dispatcher,
		Clock:       clock,
	})
	warehouseService := service.NewWarehouseService(service.WarehouseDependencies{
		WarehouseRepo: warehouseRepo,
		ProductRepo:   productRepo,
		StockRepo:     stockRepo,
		Dispatcher:    dispatcher,
		Clock:         clock,
	})
	salesService := service.NewSalesService(service.SalesDependencies{
		SaleRepo:      saleRepo,
		ProductRepo:   productRepo,
		WarehouseRepo: warehouseRepo,
		StockRepo:     stockRepo,
		Dispatcher:    dispatcher,
		Clock:         clock,
	})
	procurementService := service.NewProcurementService(service.ProcurementDependencies{
		PurchaseOrderRepo: orderRepo,
		ProductRepo:       productRepo,
		WarehouseRepo:     warehouseRepo,
		StockRepo:         stockRepo,
		Dispatcher:        dispatcher,
		Clock:             clock,
	})
	surveyService := service.NewSurveyService(service.SurveyDependencies{
		SurveyRepo: surveyRepo,
		Dispatcher: dispatcher,
		Clock:      clock,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		EmployeeRepo:      employeeRepo,
		LeaveRepo:         leaveRepo,
		ProductRepo:       productRepo,
		SaleRepo:          saleRepo,
		StockRepo:         stockRepo,
		PurchaseOrderRepo: orderRepo,
		SurveyRepo:        surveyRepo,
		Cache:             dashboardCache,
		RecentLimit:       cfg.Dashboard.RecentLimit,
		Clock:             clock,
		Logger:            logger,
	})

	app := httptransport.NewApp(cfg.App.Name, cfg.App.BodyLimitBytes, logger)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		HR:             handlers.NewHRHandler(hrService),
		Leave:          handlers.NewLeaveHandler(leaveService),
		Inventory:      handlers.NewInventoryHandler(inventoryService),
		Sales:          handlers.NewSalesHandler(salesService),
		Warehouse:      handlers.NewWarehouseHandler(warehouseService),
		Procurement:    handlers.NewProcurementHandler(procurementService),
		Surveys:        handlers.NewSurveyHandler(surveyService),
		Reports:        handlers.NewReportHandler(reportService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo, revoked, logger),
		Authorizer:     authorizer,
		Metrics:        metrics,
		Logger:         logger,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("graceful shutdown", zap.Error(err))
	}
}

func buildAuthorizer(cfg config.AuthzConfig) (*auth.Authorizer, error) {
	mode, err := auth.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	return auth.NewAuthorizer(cfg.ModelPath, cfg.PolicyPath, mode)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
