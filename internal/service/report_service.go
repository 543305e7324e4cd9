package service

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
)

// SummaryCache stores dashboard summaries between requests.
type SummaryCache interface {
	Get(ctx context.Context) (*domain.DashboardSummary, bool, error)
	Set(ctx context.Context, summary *domain.DashboardSummary) error
}

// ReportService assembles the reports dashboard.
type ReportService struct {
	employees   repository.EmployeeRepository
	leave       repository.LeaveRepository
	products    repository.ProductRepository
	sales       repository.SaleRepository
	stock       repository.StockRepository
	orders      repository.PurchaseOrderRepository
	surveys     repository.SurveyRepository
	cache       SummaryCache
	recentLimit int
	clock       clockwork.Clock
	logger      *zap.Logger
}

// ReportDependencies bundles requirements for the report service.
type ReportDependencies struct {
	EmployeeRepo      repository.EmployeeRepository
	LeaveRepo         repository.LeaveRepository
	ProductRepo       repository.ProductRepository
	SaleRepo          repository.SaleRepository
	StockRepo         repository.StockRepository
	PurchaseOrderRepo repository.PurchaseOrderRepository
	SurveyRepo        repository.SurveyRepository
	Cache             SummaryCache
	RecentLimit       int
	Clock             clockwork.Clock
	Logger            *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := deps.RecentLimit
	if limit <= 0 {
		limit = 5
	}
	return &ReportService{
		employees:   deps.EmployeeRepo,
		leave:       deps.LeaveRepo,
		products:    deps.ProductRepo,
		sales:       deps.SaleRepo,
		stock:       deps.StockRepo,
		orders:      deps.PurchaseOrderRepo,
		surveys:     deps.SurveyRepo,
		cache:       deps.Cache,
		recentLimit: limit,
		clock:       clock,
		logger:      logger,
	}
}

// Dashboard returns the cached summary or builds a fresh one. Every source is
// queried concurrently; a failing source is logged, left at its zero value and
// named in Fallbacks.
func (s *ReportService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	recent := repository.Page{Limit: s.recentLimit}

	summary := &domain.DashboardSummary{
		GeneratedAt:      now,
		RevenueThisMonth: decimal.Zero,
		RecentSales:      []domain.Sale{},
		RecentMovements:  []domain.StockMovement{},
	}

	var (
		mu        sync.Mutex
		fallbacks []string
	)
	sources := []struct {
		name string
		load func(context.Context) error
	}{
		{"employees", func(ctx context.Context) error {
			n, err := s.employees.Count(ctx, repository.EmployeeFilter{})
			summary.EmployeeCount = n
			return err
		}},
		{"active_employees", func(ctx context.Context) error {
			status := domain.EmployeeStatusActive
			n, err := s.employees.Count(ctx, repository.EmployeeFilter{Status: &status})
			summary.ActiveEmployeeCount = n
			return err
		}},
		{"pending_leave", func(ctx context.Context) error {
			n, err := s.leave.CountPending(ctx)
			summary.PendingLeaveRequests = n
			return err
		}},
		{"on_leave", func(ctx context.Context) error {
			n, err := s.leave.CountOnLeave(ctx, today)
			summary.EmployeesOnLeave = n
			return err
		}},
		{"products", func(ctx context.Context) error {
			n, err := s.products.Count(ctx)
			summary.ProductCount = n
			return err
		}},
		{"low_stock", func(ctx context.Context) error {
			n, err := s.products.CountLowStock(ctx)
			summary.LowStockProducts = n
			return err
		}},
		{"sales_summary", func(ctx context.Context) error {
			n, revenue, err := s.sales.Summary(ctx, monthStart)
			if err != nil {
				return err
			}
			summary.SalesThisMonth = n
			summary.RevenueThisMonth = revenue
			return nil
		}},
		{"purchase_orders", func(ctx context.Context) error {
			n, err := s.orders.CountOpen(ctx)
			summary.OpenPurchaseOrders = n
			return err
		}},
		{"surveys", func(ctx context.Context) error {
			n, err := s.surveys.CountOpen(ctx)
			summary.OpenSurveys = n
			return err
		}},
		{"recent_sales", func(ctx context.Context) error {
			list, err := s.sales.List(ctx, repository.SaleFilter{Page: recent})
			if err != nil {
				return err
			}
			if list != nil {
				summary.RecentSales = list
			}
			return nil
		}},
		{"recent_movements", func(ctx context.Context) error {
			list, err := s.stock.ListMovements(ctx, repository.MovementFilter{Page: recent})
			if err != nil {
				return err
			}
			if list != nil {
				summary.RecentMovements = list
			}
			return nil
		}},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			if err := src.load(gctx); err != nil {
				s.logger.Warn("dashboard source failed, using default",
					zap.String("source", src.name), zap.Error(err))
				mu.Lock()
				fallbacks = append(fallbacks, src.name)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	// zero out fields a failed source may have partially written
	for _, name := range fallbacks {
		resetSource(summary, name)
	}
	summary.Fallbacks = sortedCopy(fallbacks)

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func resetSource(summary *domain.DashboardSummary, name string) {
	switch name {
	case "employees":
		summary.EmployeeCount = 0
	case "active_employees":
		summary.ActiveEmployeeCount = 0
	case "pending_leave":
		summary.PendingLeaveRequests = 0
	case "on_leave":
		summary.EmployeesOnLeave = 0
	case "products":
		summary.ProductCount = 0
	case "low_stock":
		summary.LowStockProducts = 0
	case "purchase_orders":
		summary.OpenPurchaseOrders = 0
	case "surveys":
		summary.OpenSurveys = 0
	}
}
