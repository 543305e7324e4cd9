package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
)

func newProcurementFixture() (*ProcurementService, *fakeOrders, *fakeStock, *recordingDispatcher) {
	stock := newFakeStock()
	products := newFakeProducts(stock, domain.Product{ID: "p-1", SKU: "BOLT", IsActive: true, ReorderLevel: 1})
	warehouses := newFakeWarehouses(stock, domain.Warehouse{ID: "wh-1", Code: "MAIN", IsActive: true})
	orders := newFakeOrders()
	dispatcher := &recordingDispatcher{}
	svc := NewProcurementService(ProcurementDependencies{
		PurchaseOrderRepo: orders,
		ProductRepo:       products,
		WarehouseRepo:     warehouses,
		StockRepo:         stock,
		Dispatcher:        dispatcher,
	})
	return svc, orders, stock, dispatcher
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	svc, _, stock, dispatcher := newProcurementFixture()
	ctx := context.Background()
	actor := Actor{UserID: "u-buyer", Role: domain.RoleProcurement}

	po, err := svc.CreatePurchaseOrder(ctx, actor, PurchaseOrderInput{
		SupplierName: "Bolts Ltd",
		WarehouseID:  "wh-1",
		Items:        []PurchaseOrderItemInput{{ProductID: "p-1", Quantity: 100, UnitCost: decimal.RequireFromString("0.15")}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.POStatusDraft, po.Status)
	assert.Equal(t, "15.00", po.Total.StringFixed(2))
	assert.Contains(t, po.PONumber, "PO-")

	_, err = svc.Receive(ctx, actor, po.ID)
	assert.Equal(t, "INVALID_STATE", code(t, err))

	_, err = svc.Submit(ctx, actor, po.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, actor, po.ID)
	require.NoError(t, err)

	received, err := svc.Receive(ctx, actor, po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.POStatusReceived, received.Status)

	qty, _ := stock.Quantity(ctx, "wh-1", "p-1")
	assert.Equal(t, 100, qty)
	require.Len(t, stock.movements, 1)
	assert.Equal(t, domain.MovementIn, stock.movements[0].MovementType)
	assert.Equal(t, po.PONumber, stock.movements[0].Reference)

	_, err = svc.Cancel(ctx, actor, po.ID)
	assert.Equal(t, "INVALID_STATE", code(t, err))

	statusEvents := 0
	for _, typ := range dispatcher.types() {
		if typ == events.EventPurchaseOrderStatus {
			statusEvents++
		}
	}
	assert.Equal(t, 3, statusEvents)
}

func TestPurchaseOrderReceiveRevertsOnStockFailure(t *testing.T) {
	svc, orders, stock, _ := newProcurementFixture()
	ctx := context.Background()
	actor := Actor{UserID: "u-buyer", Role: domain.RoleProcurement}

	po, err := svc.CreatePurchaseOrder(ctx, actor, PurchaseOrderInput{
		SupplierName: "Bolts Ltd",
		WarehouseID:  "wh-1",
		Items:        []PurchaseOrderItemInput{{ProductID: "p-1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, actor, po.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, actor, po.ID)
	require.NoError(t, err)

	stock.applyErr = errBoom
	_, err = svc.Receive(ctx, actor, po.ID)
	require.ErrorIs(t, err, errBoom)

	stored, _ := orders.GetByID(ctx, po.ID)
	assert.Equal(t, domain.POStatusApproved, stored.Status)
}

func TestPurchaseOrderValidation(t *testing.T) {
	svc, _, _, _ := newProcurementFixture()
	ctx := context.Background()
	actor := Actor{UserID: "u-buyer"}

	_, err := svc.CreatePurchaseOrder(ctx, actor, PurchaseOrderInput{SupplierName: "X", WarehouseID: "wh-1"})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	_, err = svc.CreatePurchaseOrder(ctx, actor, PurchaseOrderInput{
		SupplierName: "X", WarehouseID: "wh-404", Items: []PurchaseOrderItemInput{{ProductID: "p-1", Quantity: 1}},
	})
	assert.Equal(t, "NOT_FOUND", code(t, err))

	_, err = svc.CreatePurchaseOrder(ctx, actor, PurchaseOrderInput{
		SupplierName: "X", WarehouseID: "wh-1",
		Items: []PurchaseOrderItemInput{{ProductID: "p-1", Quantity: 1, UnitCost: decimal.NewFromInt(-1)}},
	})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))
}
