package usecase

import (
	"context"
	"encoding/json"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	applogger "RetailPulse/pkg/logger"
)

// KafkaEventsHandler consumes point-of-sale event envelopes from the events
// topic and runs them through the engine. It implements kafka.MessageHandler.
type KafkaEventsHandler struct {
	topic   string
	engine  *Engine
	log     *applogger.Logger
	metrics repository.Metrics
}

// NewKafkaEventsHandler creates a handler bound to the events topic.
func NewKafkaEventsHandler(topic string, engine *Engine, log *applogger.Logger, metrics repository.Metrics) *KafkaEventsHandler {
	return &KafkaEventsHandler{
		topic:   topic,
		engine:  engine,
		log:     log,
		metrics: metrics,
	}
}

// Topic returns the subscribed topic name.
func (h *KafkaEventsHandler) Topic() string {
	return h.topic
}

// Handle decodes one event envelope and applies it. Malformed payloads are
// dropped here (adapter-level rejection, nothing to retry); engine failures
// return so the consumer's retry and DLQ policy owns them.
func (h *KafkaEventsHandler) Handle(ctx context.Context, data []byte) error {
	start := time.Now()

	var ev models.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		h.log.Warn("malformed event payload dropped", applogger.Error(err))
		if h.metrics != nil {
			h.metrics.RecordError("malformed_input")
		}
		return nil
	}
	if ev.OutletID <= 0 {
		h.log.Warn("event without outlet id dropped")
		if h.metrics != nil {
			h.metrics.RecordError("malformed_input")
		}
		return nil
	}
	ev.Normalize()

	if h.metrics != nil {
		h.metrics.RecordEvent(string(ev.Kind), "kafka")
	}

	err := h.engine.HandleEvent(ctx, ev)

	if h.metrics != nil {
		h.metrics.RecordLatency("handle_event", time.Since(start).Seconds())
	}
	return err
}
