package events

import (
	"time"

	"github.com/spec-kit/erp-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeaveRequested      EventType = "leave_requested"
	EventLeaveApproved       EventType = "leave_approved"
	EventLeaveRejected       EventType = "leave_rejected"
	EventLeaveCancelled      EventType = "leave_cancelled"
	EventEmployeeHired       EventType = "employee_hired"
	EventEmployeeTerminated  EventType = "employee_terminated"
	EventOnboardingCompleted EventType = "onboarding_completed"
	EventSaleConfirmed       EventType = "sale_confirmed"
	EventSaleCancelled       EventType = "sale_cancelled"
	EventProductCreated      EventType = "product_created"
	EventProductUpdated      EventType = "product_updated"
	EventStockMoved          EventType = "stock_moved"
	EventStockLow            EventType = "stock_low"
	EventPurchaseOrderStatus EventType = "purchase_order_status_changed"
	EventSurveyOpened        EventType = "survey_opened"
	EventSurveyClosed        EventType = "survey_closed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID *string     `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// LeavePayload describes a leave request transition.
type LeavePayload struct {
	EmployeeID  string             `json:"employee_id"`
	LeaveType   domain.LeaveType   `json:"leave_type"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	WorkingDays int                `json:"working_days"`
	Status      domain.LeaveStatus `json:"status"`
	Comment     string             `json:"comment,omitempty"`
}

// EmployeePayload describes an employee lifecycle change.
type EmployeePayload struct {
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id,omitempty"`
}

// SalePayload describes a sale transition.
type SalePayload struct {
	Reference string            `json:"reference"`
	Status    domain.SaleStatus `json:"status"`
	Total     string            `json:"total"`
}

// ProductPayload describes a catalogue change.
type ProductPayload struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	UnitPrice    string `json:"unit_price"`
	ReorderLevel int    `json:"reorder_level"`
	IsActive     bool   `json:"is_active"`
}

// StockMovedPayload describes an applied movement.
type StockMovedPayload struct {
	ProductID    string              `json:"product_id"`
	MovementType domain.MovementType `json:"movement_type"`
	Quantity     int                 `json:"quantity"`
	Reference    string              `json:"reference,omitempty"`
}

// StockLowPayload signals that total stock reached the reorder level.
type StockLowPayload struct {
	SKU          string `json:"sku"`
	OnHand       int    `json:"on_hand"`
	ReorderLevel int    `json:"reorder_level"`
}

// PurchaseOrderStatusPayload describes a PO transition.
type PurchaseOrderStatusPayload struct {
	PONumber  string                     `json:"po_number"`
	OldStatus domain.PurchaseOrderStatus `json:"old_status"`
	NewStatus domain.PurchaseOrderStatus `json:"new_status"`
}

// SurveyPayload describes a survey transition.
type SurveyPayload struct {
	Title  string              `json:"title"`
	Status domain.SurveyStatus `json:"status"`
}
