package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/erp-service/internal/config"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/service"
)

func TestStartNotificationWorkerLogsLowStock(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)

	StartNotificationWorker(service.NewNotificationService(dispatcher, zap.New(core)))

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:        events.EventStockLow,
		AggregateID: "p1",
		Payload:     events.StockLowPayload{SKU: "SKU-1", OnHand: 2, ReorderLevel: 5},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("low stock").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SKU-1", entries[0].ContextMap()["sku"])
}

func TestStartNotificationWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil) })
}

func TestStartEventForwarderDisabledWithoutBrokers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	publisher := StartEventForwarder(config.KafkaConfig{Topic: "erp.events"}, dispatcher, zap.NewNop())
	assert.Nil(t, publisher)
}
