package events

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherIsolatesHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventLeaveApproved, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventLeaveApproved, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		calls = append(calls, "all:"+string(e.Type))
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLeaveApproved, AggregateID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "all:leave_approved"}, calls)

	calls = nil
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSaleConfirmed}))
	assert.Equal(t, []string{"all:sale_confirmed"}, calls)
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisher(w)

	ts := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	err := p.Handle(context.Background(), Event{
		ID:          "e1",
		Type:        EventSaleConfirmed,
		AggregateID: "sale-1",
		Timestamp:   ts,
		Payload:     SalePayload{Reference: "S-1", Status: "CONFIRMED", Total: "10.50"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "sale-1", string(msg.Key))
	assert.Equal(t, ts, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "sale_confirmed", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "sale_confirmed", decoded["type"])
	assert.Equal(t, "S-1", decoded["payload"].(map[string]any)["reference"])
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	p := NewKafkaPublisher(&recordingWriter{err: errors.New("broker down")})
	err := p.Handle(context.Background(), Event{Type: EventStockLow})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock_low")
	assert.Contains(t, err.Error(), "broker down")
}
