package application

import (
	"context"

	"github.com/adoptly/service-adoption/internal/events"
	"github.com/adoptly/service-adoption/internal/platform/kafka"
	"go.uber.org/zap"
)

// EventPublisher writes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// publishEvent builds and sends one event. Failures are logged and dropped;
// the caller's operation has already succeeded.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType, subject string, data interface{}) {
	if publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, subject, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
