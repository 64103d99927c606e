package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

func (kp *KafkaProducer) GetWriter(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(kp.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(ctx context.Context, topic, key string, value interface{}) error {
	writer := kp.GetWriter(topic)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "kafka: encode message")
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return writer.WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	for _, writer := range kp.writers {
		writer.Close()
	}
}

// Event types published by the cart core
const (
	CartEventCheckoutCreated  = "checkout_created"
	CartEventItemsAdded       = "items_added"
	CartEventItemRemoved      = "item_removed"
	CartEventDegradedToLocal  = "degraded_to_local"
	CartEventLocalItemAdded   = "local_item_added"
	CartEventLocalItemRemoved = "local_item_removed"
)

type CartEvent struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id"`
	CheckoutID string    `json:"checkout_id,omitempty"`
	VariantID  string    `json:"variant_id,omitempty"`
	LineItemID string    `json:"line_item_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Mode       string    `json:"mode"`
	OccurredAt time.Time `json:"occurred_at"`
}
