package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/erp-service/internal/events"
)

// NotificationService turns domain events into operator notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventLeaveRequested,
		events.EventLeaveApproved,
		events.EventLeaveRejected,
		events.EventLeaveCancelled,
	} {
		n.dispatcher.Subscribe(t, n.handleLeave)
	}
	n.dispatcher.Subscribe(events.EventPurchaseOrderStatus, n.handlePurchaseOrder)
	n.dispatcher.Subscribe(events.EventStockLow, n.handleStockLow)
	n.dispatcher.Subscribe(events.EventOnboardingCompleted, n.handleGeneric)
	n.dispatcher.Subscribe(events.EventEmployeeTerminated, n.handleGeneric)
}

func (n *NotificationService) handleLeave(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_type", string(event.Type)),
		zap.String("leave_request_id", event.AggregateID),
	}
	if p, ok := event.Payload.(events.LeavePayload); ok {
		fields = append(fields,
			zap.String("employee_id", p.EmployeeID),
			zap.String("leave_type", string(p.LeaveType)),
			zap.String("start_date", p.StartDate),
			zap.String("end_date", p.EndDate),
			zap.Int("working_days", p.WorkingDays))
	}
	n.logger.Info("leave notification", fields...)
	return nil
}

func (n *NotificationService) handlePurchaseOrder(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("purchase_order_id", event.AggregateID)}
	if p, ok := event.Payload.(events.PurchaseOrderStatusPayload); ok {
		fields = append(fields,
			zap.String("po_number", p.PONumber),
			zap.String("old_status", string(p.OldStatus)),
			zap.String("new_status", string(p.NewStatus)))
	}
	n.logger.Info("purchase order notification", fields...)
	return nil
}

func (n *NotificationService) handleStockLow(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("product_id", event.AggregateID)}
	if p, ok := event.Payload.(events.StockLowPayload); ok {
		fields = append(fields,
			zap.String("sku", p.SKU),
			zap.Int("on_hand", p.OnHand),
			zap.Int("reorder_level", p.ReorderLevel))
	}
	n.logger.Warn("low stock", fields...)
	return nil
}

func (n *NotificationService) handleGeneric(_ context.Context, event events.Event) error {
	n.logger.Info("notification",
		zap.String("event_type", string(event.Type)),
		zap.String("aggregate_id", event.AggregateID),
		zap.Any("payload", event.Payload))
	return nil
}
