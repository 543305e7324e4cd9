package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
)

// DashboardResponse is the reports landing summary. Fallbacks lists the
// sources that failed and were replaced by defaults.
type DashboardResponse struct {
	GeneratedAt          time.Time          `json:"generated_at"`
	EmployeeCount        int                `json:"employee_count"`
	ActiveEmployeeCount  int                `json:"active_employee_count"`
	PendingLeaveRequests int                `json:"pending_leave_requests"`
	EmployeesOnLeave     int                `json:"employees_on_leave"`
	ProductCount         int                `json:"product_count"`
	LowStockProducts     int                `json:"low_stock_products"`
	SalesThisMonth       int                `json:"sales_this_month"`
	RevenueThisMonth     decimal.Decimal    `json:"revenue_this_month"`
	OpenPurchaseOrders   int                `json:"open_purchase_orders"`
	OpenSurveys          int                `json:"open_surveys"`
	RecentSales          []SaleResponse     `json:"recent_sales"`
	RecentMovements      []MovementResponse `json:"recent_movements"`
	Fallbacks            []string           `json:"fallbacks"`
}

func NewDashboardResponse(d *domain.DashboardSummary) DashboardResponse {
	sales := make([]SaleResponse, 0, len(d.RecentSales))
	for i := range d.RecentSales {
		sales = append(sales, NewSaleResponse(&d.RecentSales[i]))
	}
	movements := make([]MovementResponse, 0, len(d.RecentMovements))
	for i := range d.RecentMovements {
		movements = append(movements, NewMovementResponse(&d.RecentMovements[i]))
	}
	fallbacks := d.Fallbacks
	if fallbacks == nil {
		fallbacks = []string{}
	}
	return DashboardResponse{
		GeneratedAt:          d.GeneratedAt,
		EmployeeCount:        d.EmployeeCount,
		ActiveEmployeeCount:  d.ActiveEmployeeCount,
		PendingLeaveRequests: d.PendingLeaveRequests,
		EmployeesOnLeave:     d.EmployeesOnLeave,
		ProductCount:         d.ProductCount,
		LowStockProducts:     d.LowStockProducts,
		SalesThisMonth:       d.SalesThisMonth,
		RevenueThisMonth:     d.RevenueThisMonth,
		OpenPurchaseOrders:   d.OpenPurchaseOrders,
		OpenSurveys:          d.OpenSurveys,
		RecentSales:          sales,
		RecentMovements:      movements,
		Fallbacks:            fallbacks,
	}
}
