package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
)

func newWarehouseFixture() (*WarehouseService, *fakeStock, *recordingDispatcher) {
	stock := newFakeStock()
	products := newFakeProducts(stock, domain.Product{ID: "p-1", SKU: "NUT", IsActive: true, ReorderLevel: 3})
	warehouses := newFakeWarehouses(stock,
		domain.Warehouse{ID: "wh-a", Code: "A", IsActive: true},
		domain.Warehouse{ID: "wh-b", Code: "B", IsActive: true},
		domain.Warehouse{ID: "wh-x", Code: "X", IsActive: false},
	)
	dispatcher := &recordingDispatcher{}
	svc := NewWarehouseService(WarehouseDependencies{
		WarehouseRepo: warehouses,
		ProductRepo:   products,
		StockRepo:     stock,
		Dispatcher:    dispatcher,
	})
	return svc, stock, dispatcher
}

func TestRecordMovementKinds(t *testing.T) {
	svc, stock, dispatcher := newWarehouseFixture()
	ctx := context.Background()
	actor := Actor{UserID: "u-wh", Role: domain.RoleWarehouse}

	_, err := svc.RecordMovement(ctx, actor, MovementInput{
		ProductID: "p-1", MovementType: domain.MovementIn, TargetWarehouseID: strPtr("wh-a"), Quantity: 10,
	})
	require.NoError(t, err)

	m, err := svc.RecordMovement(ctx, actor, MovementInput{
		ProductID: "p-1", MovementType: domain.MovementTransfer,
		SourceWarehouseID: strPtr("wh-a"), TargetWarehouseID: strPtr("wh-b"), Quantity: 4,
	})
	require.NoError(t, err)
	require.NotNil(t, m.CreatedBy)
	assert.Equal(t, "u-wh", *m.CreatedBy)

	_, err = svc.RecordMovement(ctx, actor, MovementInput{
		ProductID: "p-1", MovementType: domain.MovementAdjustment, TargetWarehouseID: strPtr("wh-b"), Quantity: -1,
	})
	require.NoError(t, err)

	_, err = svc.RecordMovement(ctx, actor, MovementInput{
		ProductID: "p-1", MovementType: domain.MovementOut, SourceWarehouseID: strPtr("wh-a"), Quantity: 6,
	})
	require.NoError(t, err)

	a, _ := stock.Quantity(ctx, "wh-a", "p-1")
	b, _ := stock.Quantity(ctx, "wh-b", "p-1")
	assert.Equal(t, 0, a)
	assert.Equal(t, 3, b)

	_, err = svc.RecordMovement(ctx, actor, MovementInput{
		ProductID: "p-1", MovementType: domain.MovementOut, SourceWarehouseID: strPtr("wh-b"), Quantity: 4,
	})
	assert.Equal(t, "INVALID_STATE", code(t, err))
	b, _ = stock.Quantity(ctx, "wh-b", "p-1")
	assert.Equal(t, 3, b)

	assert.Contains(t, dispatcher.types(), events.EventStockLow)

	levels, err := svc.Stock(ctx, "wh-b")
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 3, levels[0].Quantity)
}

func TestRecordMovementValidation(t *testing.T) {
	svc, _, _ := newWarehouseFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input MovementInput
		code  string
	}{
		{"unknown type", MovementInput{ProductID: "p-1", MovementType: "MOVE", Quantity: 1}, "VALIDATION_FAILED"},
		{"in without target", MovementInput{ProductID: "p-1", MovementType: domain.MovementIn, Quantity: 1}, "VALIDATION_FAILED"},
		{"out without source", MovementInput{ProductID: "p-1", MovementType: domain.MovementOut, Quantity: 1}, "VALIDATION_FAILED"},
		{"transfer same warehouse", MovementInput{
			ProductID: "p-1", MovementType: domain.MovementTransfer,
			SourceWarehouseID: strPtr("wh-a"), TargetWarehouseID: strPtr("wh-a"), Quantity: 1,
		}, "VALIDATION_FAILED"},
		{"zero quantity", MovementInput{ProductID: "p-1", MovementType: domain.MovementIn, TargetWarehouseID: strPtr("wh-a")}, "VALIDATION_FAILED"},
		{"zero adjustment", MovementInput{ProductID: "p-1", MovementType: domain.MovementAdjustment, TargetWarehouseID: strPtr("wh-a")}, "VALIDATION_FAILED"},
		{"negative in", MovementInput{ProductID: "p-1", MovementType: domain.MovementIn, TargetWarehouseID: strPtr("wh-a"), Quantity: -3}, "VALIDATION_FAILED"},
		{"unknown product", MovementInput{ProductID: "p-404", MovementType: domain.MovementIn, TargetWarehouseID: strPtr("wh-a"), Quantity: 1}, "NOT_FOUND"},
		{"inactive warehouse", MovementInput{ProductID: "p-1", MovementType: domain.MovementIn, TargetWarehouseID: strPtr("wh-x"), Quantity: 1}, "INVALID_STATE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordMovement(ctx, Actor{}, tc.input)
			assert.Equal(t, tc.code, code(t, err))
		})
	}
}
