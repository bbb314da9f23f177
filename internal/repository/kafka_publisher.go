package repository

import (
	"context"
	"strconv"

	"RetailPulse/internal/domain/models"
	pkgkafka "RetailPulse/pkg/kafka"
)

// KafkaSignalPublisher publishes signals to the signals topic. Messages are
// keyed by outlet id so one outlet's signals land on one partition in order.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a signal publisher for topic.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

// Publish sends the signal's canonical form, best effort.
func (p *KafkaSignalPublisher) Publish(ctx context.Context, sig models.Signal) error {
	key := []byte(strconv.FormatInt(sig.OutletID, 10))
	return p.producer.Publish(ctx, p.topic, key, []byte(sig.Canonical()))
}

// Close closes the underlying producer.
func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}
