package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/erp-service/internal/config"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartEventForwarder subscribes a kafka publisher to every event when kafka is
// configured. The returned publisher must be closed on shutdown; it is nil when
// forwarding is disabled.
func StartEventForwarder(cfg config.KafkaConfig, dispatcher events.Dispatcher, logger *zap.Logger) *events.KafkaPublisher {
	if !cfg.Enabled() || dispatcher == nil {
		return nil
	}
	publisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Brokers, cfg.Topic))
	dispatcher.SubscribeAll(publisher.Handle)
	logger.Info("forwarding events to kafka",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic))
	return publisher
}
