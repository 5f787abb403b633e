package messaging

import (
	"context"
	"log/slog"
	"sync"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
)

// Kafka is the event bus adapter used by the worker/outbox relay and by
// device-transport and console subscribers. Current implementation is
// in-process publish/subscribe while runtime wiring is finalized for
// external brokers.
type Kafka struct {
	mu          sync.RWMutex
	subscribers map[string][]chan contractsv1.Envelope
	logger      *slog.Logger
}

func NewKafka(_ []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{
		subscribers: make(map[string][]chan contractsv1.Envelope),
		logger:      logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	k.mu.RLock()
	subs := append([]chan contractsv1.Envelope(nil), k.subscribers[topic]...)
	k.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			if k.logger != nil {
				k.logger.Warn("dropping event for slow subscriber",
					"event", "kafka_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
		}
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

// Subscribe registers a buffered channel for a topic. The caller owns the
// channel lifetime; slow consumers lose events rather than block publishers.
func (k *Kafka) Subscribe(topic string, buffer int) <-chan contractsv1.Envelope {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan contractsv1.Envelope, buffer)

	k.mu.Lock()
	k.subscribers[topic] = append(k.subscribers[topic], ch)
	k.mu.Unlock()

	return ch
}
