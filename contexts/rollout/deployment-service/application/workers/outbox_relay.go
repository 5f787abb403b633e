package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// OutboxRelay publishes persisted outbox records to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after broker publish succeeds. It stops on the first failure
// so the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("action outbox list failed",
			"event", "action_outbox_list_failed",
			"module", "rollout/deployment-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("action outbox relay found no pending rows",
			"event", "action_outbox_relay_noop",
			"module", "rollout/deployment-service",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.ActionEvent
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("action outbox decode failed",
				"event", "action_outbox_decode_failed",
				"module", "rollout/deployment-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("action outbox publish failed",
				"event", "action_outbox_publish_failed",
				"module", "rollout/deployment-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("action outbox mark published failed",
				"event", "action_outbox_mark_published_failed",
				"module", "rollout/deployment-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("action outbox relay cycle completed",
		"event", "action_outbox_relay_completed",
		"module", "rollout/deployment-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
