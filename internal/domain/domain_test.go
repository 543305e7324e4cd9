package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockMovementDeltas(t *testing.T) {
	a, b := "wh-a", "wh-b"

	transfer := StockMovement{MovementType: MovementTransfer, SourceWarehouseID: &a, TargetWarehouseID: &b, Quantity: 4}
	assert.Equal(t, []StockDelta{{WarehouseID: a, Delta: -4}, {WarehouseID: b, Delta: 4}}, transfer.Deltas())

	out := StockMovement{MovementType: MovementOut, SourceWarehouseID: &a, Quantity: 2}
	assert.Equal(t, []StockDelta{{WarehouseID: a, Delta: -2}}, out.Deltas())

	adjust := StockMovement{MovementType: MovementAdjustment, TargetWarehouseID: &b, Quantity: -3}
	assert.Equal(t, []StockDelta{{WarehouseID: b, Delta: -3}}, adjust.Deltas())
}

func TestSaleRecalculate(t *testing.T) {
	sale := Sale{Items: []SaleItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.02")},
	}}

	sale.Recalculate()

	assert.True(t, decimal.RequireFromString("59.97").Equal(sale.Items[0].LineTotal))
	assert.True(t, decimal.RequireFromString("59.99").Equal(sale.Total))
}

func TestPurchaseOrderTransitions(t *testing.T) {
	assert.True(t, POStatusDraft.CanTransition(POStatusSubmitted))
	assert.True(t, POStatusApproved.CanTransition(POStatusReceived))
	assert.True(t, POStatusSubmitted.CanTransition(POStatusCancelled))
	assert.False(t, POStatusDraft.CanTransition(POStatusReceived))
	assert.False(t, POStatusReceived.CanTransition(POStatusCancelled))
	assert.False(t, POStatusCancelled.CanTransition(POStatusDraft))
}

func TestOnboardingDeriveStatus(t *testing.T) {
	p := OnboardingProcess{}
	assert.Equal(t, OnboardingNotStarted, p.DeriveStatus())

	p.Tasks = []OnboardingTask{{Completed: true}, {}}
	assert.Equal(t, OnboardingInProgress, p.DeriveStatus())
	assert.InDelta(t, 0.5, p.Progress(), 1e-9)

	p.Tasks[1].Completed = true
	assert.Equal(t, OnboardingCompleted, p.DeriveStatus())
}

func TestLeaveBalanceRemaining(t *testing.T) {
	b := LeaveBalance{TotalDays: 21, UsedDays: 5}
	assert.Equal(t, 16, b.Remaining())
	assert.True(t, LeaveTypeAnnual.Tracked())
	assert.False(t, LeaveTypeUnpaid.Tracked())
}

func TestEmployeeFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Employee{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Cher", Employee{FirstName: "Cher"}.FullName())
}
