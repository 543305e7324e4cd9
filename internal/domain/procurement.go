package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus enumerates PO lifecycle states.
type PurchaseOrderStatus string

const (
	POStatusDraft     PurchaseOrderStatus = "DRAFT"
	POStatusSubmitted PurchaseOrderStatus = "SUBMITTED"
	POStatusApproved  PurchaseOrderStatus = "APPROVED"
	POStatusReceived  PurchaseOrderStatus = "RECEIVED"
	POStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

var poTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	POStatusDraft:     {POStatusSubmitted, POStatusCancelled},
	POStatusSubmitted: {POStatusApproved, POStatusCancelled},
	POStatusApproved:  {POStatusReceived, POStatusCancelled},
}

// CanTransition reports whether a PO may move from s to next.
func (s PurchaseOrderStatus) CanTransition(next PurchaseOrderStatus) bool {
	for _, allowed := range poTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PurchaseOrderItem is one PO line.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int
	UnitCost        decimal.Decimal
	LineTotal       decimal.Decimal
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	ID           string
	PONumber     string
	SupplierName string
	WarehouseID  string
	Status       PurchaseOrderStatus
	ExpectedAt   *time.Time
	Items        []PurchaseOrderItem
	Total        decimal.Decimal
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Recalculate fills line totals and the order total.
func (po *PurchaseOrder) Recalculate() {
	total := decimal.Zero
	for i := range po.Items {
		item := &po.Items[i]
		item.LineTotal = item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.LineTotal)
	}
	po.Total = total
}
