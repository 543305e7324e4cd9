package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type envelope[T any] struct {
	Data T         `json:"data"`
	Meta *ListMeta `json:"meta,omitempty"`
}

// ListMeta echoes the paging of a list response.
type ListMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ListOptions are the paging and filter parameters shared by list calls.
// Zero values are omitted from the query string.
type ListOptions struct {
	Limit  int
	Offset int
	Status string
}

type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Status     string  `json:"status"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type Employee struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	DepartmentID *string `json:"department_id"`
	Position     string  `json:"position"`
	ManagerID    *string `json:"manager_id"`
	HireDate     string  `json:"hire_date"`
	Status       string  `json:"status"`
}

type LeaveRequest struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveType   string `json:"leave_type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
}

type LeaveCalculation struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
}

type Product struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int             `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	OnHand       *int            `json:"on_hand,omitempty"`
}

type SaleItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Sale struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	CustomerName string          `json:"customer_name"`
	WarehouseID  *string         `json:"warehouse_id"`
	SoldAt       time.Time       `json:"sold_at"`
	Status       string          `json:"status"`
	Items        []SaleItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

type Warehouse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsActive bool   `json:"is_active"`
}

type Movement struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	MovementType      string    `json:"movement_type"`
	SourceWarehouseID *string   `json:"source_warehouse_id"`
	TargetWarehouseID *string   `json:"target_warehouse_id"`
	Quantity          int       `json:"quantity"`
	Reference         string    `json:"reference"`
	CreatedAt         time.Time `json:"created_at"`
}

type PurchaseOrder struct {
	ID           string          `json:"id"`
	PONumber     string          `json:"po_number"`
	SupplierName string          `json:"supplier_name"`
	WarehouseID  string          `json:"warehouse_id"`
	Status       string          `json:"status"`
	ExpectedAt   *string         `json:"expected_at"`
	Total        decimal.Decimal `json:"total"`
}

type Survey struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Dashboard is the server-side summary served by /reports/dashboard.
type Dashboard struct {
	GeneratedAt          time.Time       `json:"generated_at"`
	EmployeeCount        int             `json:"employee_count"`
	ActiveEmployeeCount  int             `json:"active_employee_count"`
	PendingLeaveRequests int             `json:"pending_leave_requests"`
	EmployeesOnLeave     int             `json:"employees_on_leave"`
	ProductCount         int             `json:"product_count"`
	LowStockProducts     int             `json:"low_stock_products"`
	SalesThisMonth       int             `json:"sales_this_month"`
	RevenueThisMonth     decimal.Decimal `json:"revenue_this_month"`
	OpenPurchaseOrders   int             `json:"open_purchase_orders"`
	OpenSurveys          int             `json:"open_surveys"`
	RecentSales          []Sale          `json:"recent_sales"`
	RecentMovements      []Movement      `json:"recent_movements"`
	Fallbacks            []string        `json:"fallbacks"`
}
