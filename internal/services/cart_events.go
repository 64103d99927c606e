package services

import (
	"context"

	"bgc-cart-backend/pkg/messaging"

	"github.com/sirupsen/logrus"
)

// CartEventPublisher receives a notification after each settled cart change.
// Implementations must not block the mutation for long and never fail it.
type CartEventPublisher interface {
	Publish(ctx context.Context, event messaging.CartEvent)
}

// EventSender is the producing half of the message bus.
type EventSender interface {
	SendMessage(ctx context.Context, topic, key string, value interface{}) error
}

type kafkaCartEvents struct {
	producer EventSender
	topic    string
	log      *logrus.Logger
}

func NewKafkaCartEvents(producer EventSender, topic string, log *logrus.Logger) CartEventPublisher {
	return &kafkaCartEvents{producer: producer, topic: topic, log: log}
}

func (k *kafkaCartEvents) Publish(ctx context.Context, event messaging.CartEvent) {
	if err := k.producer.SendMessage(ctx, k.topic, event.SessionID, event); err != nil {
		k.log.WithError(err).WithFields(logrus.Fields{
			"event":      event.Type,
			"session_id": event.SessionID,
		}).Warn("failed to publish cart event")
	}
}

type noopCartEvents struct{}

func NewNoopCartEvents() CartEventPublisher { return noopCartEvents{} }

func (noopCartEvents) Publish(context.Context, messaging.CartEvent) {}
