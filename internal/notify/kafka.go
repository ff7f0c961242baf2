package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	orderPaidTopic     = "store.orders.paid"
	notificationsTopic = "store.notifications"
)

// KafkaPublisher emits domain events and notifications to Kafka when brokers
// are configured. Both roles are best-effort.
type KafkaPublisher struct {
	orderPaid     *kafka.Writer
	notifications *kafka.Writer
}

// NewKafkaPublisher returns nil when brokersCSV is empty: the publisher is
// optional and the caller wires nothing in that case.
func NewKafkaPublisher(brokersCSV string) *KafkaPublisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	if len(brokers) == 0 {
		return nil
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
	}

	return &KafkaPublisher{
		orderPaid:     newWriter(orderPaidTopic),
		notifications: newWriter(notificationsTopic),
	}
}

func (p *KafkaPublisher) PublishOrderPaid(ctx context.Context, event domain.OrderPaidEvent) error {
	if err := publishJSON(ctx, p.orderPaid, event.OrderID, event); err != nil {
		return fmt.Errorf("publishJSON: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Notify(ctx context.Context, userID, message string, severity domain.Severity) error {
	payload := map[string]any{
		"user_id":  userID,
		"message":  message,
		"severity": severity,
	}

	if err := publishJSON(ctx, p.notifications, userID, payload); err != nil {
		return fmt.Errorf("publishJSON: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.orderPaid.Close(); err != nil {
		return fmt.Errorf("orderPaid.Close: %w", err)
	}

	if err := p.notifications.Close(); err != nil {
		return fmt.Errorf("notifications.Close: %w", err)
	}

	return nil
}

func publishJSON(ctx context.Context, writer *kafka.Writer, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
}
