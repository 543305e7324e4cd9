package client

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard sources, as reported in Snapshot.Fallbacks.
const (
	SourceEmployees = "employees"
	SourceLeave     = "leave_requests"
	SourceProducts  = "products"
	SourceLowStock  = "low_stock"
	SourceSales     = "sales"
	SourceMovements = "movements"
)

// dashboardPageSize bounds each source fetch.
const dashboardPageSize = 100

// Snapshot is a client-side dashboard built from several list endpoints. A
// source that failed holds an empty list and is named in Fallbacks.
type Snapshot struct {
	Employees     []Employee
	PendingLeave  []LeaveRequest
	Products      []Product
	LowStock      []Product
	RecentSales   []Sale
	RecentMoves   []Movement
	LowStockCount int
	Fallbacks     []string
}

// FetchDashboard queries every source concurrently. Failures are logged and
// replaced by defaults; nothing is retried and the call itself only fails when
// ctx is done.
func FetchDashboard(ctx context.Context, c *Client) (*Snapshot, error) {
	snap := &Snapshot{}
	var (
		mu        sync.Mutex
		fallbacks []string
	)
	fallback := func(source string, err error) {
		c.logger.Warn("dashboard source unavailable", zap.String("source", source), zap.Error(err))
		mu.Lock()
		fallbacks = append(fallbacks, source)
		mu.Unlock()
	}
	page := ListOptions{Limit: dashboardPageSize}

	var g errgroup.Group
	g.Go(func() error {
		items, err := c.ListEmployees(ctx, page)
		if err != nil {
			fallback(SourceEmployees, err)
			items = []Employee{}
		}
		snap.Employees = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListLeaveRequests(ctx, ListOptions{Limit: dashboardPageSize, Status: "PENDING"})
		if err != nil {
			fallback(SourceLeave, err)
			items = []LeaveRequest{}
		}
		snap.PendingLeave = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListProducts(ctx, page)
		if err != nil {
			fallback(SourceProducts, err)
			items = []Product{}
		}
		snap.Products = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListLowStock(ctx, page)
		if err != nil {
			fallback(SourceLowStock, err)
			items = []Product{}
		}
		snap.LowStock = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListSales(ctx, ListOptions{Limit: 10})
		if err != nil {
			fallback(SourceSales, err)
			items = []Sale{}
		}
		snap.RecentSales = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListMovements(ctx, ListOptions{Limit: 10})
		if err != nil {
			fallback(SourceMovements, err)
			items = []Movement{}
		}
		snap.RecentMoves = items
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap.LowStockCount = len(snap.LowStock)
	sort.Strings(fallbacks)
	snap.Fallbacks = fallbacks
	return snap, nil
}
