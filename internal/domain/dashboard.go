package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the reports landing view.
type DashboardSummary struct {
	GeneratedAt          time.Time
	EmployeeCount        int
	ActiveEmployeeCount  int
	PendingLeaveRequests int
	EmployeesOnLeave     int
	ProductCount         int
	LowStockProducts     int
	SalesThisMonth       int
	RevenueThisMonth     decimal.Decimal
	OpenPurchaseOrders   int
	OpenSurveys          int
	RecentSales          []Sale
	RecentMovements      []StockMovement
	Fallbacks            []string
}
