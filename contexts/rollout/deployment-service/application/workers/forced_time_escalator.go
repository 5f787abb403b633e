package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	application "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// ForcedTimeEscalator promotes timeforced actions whose forced time has
// passed. The escalation is an announcement to the device transport, not a
// status change: the action stays in its current state while the transport
// stops treating it as soft. Each action is announced exactly once.
type ForcedTimeEscalator struct {
	Actions   ports.ActionRepository
	Outbox    ports.OutboxRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	BatchSize int
	Logger    *slog.Logger
}

func (e ForcedTimeEscalator) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(e.Logger)
	limit := e.BatchSize
	if limit <= 0 {
		limit = 100
	}

	now := time.Now().UTC()
	if e.Clock != nil {
		now = e.Clock.Now().UTC()
	}

	due, err := e.Actions.ListEscalatableActions(ctx, now, limit)
	if err != nil {
		logger.Error("forced time scan failed",
			"event", "forced_time_scan_failed",
			"module", "rollout/deployment-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(due) == 0 {
		return nil
	}

	for _, action := range due {
		eventID, err := e.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]string{
			"action_id":     action.ActionID,
			"controller_id": action.ControllerID,
			"set_id":        action.SetID,
			"status":        string(action.Status),
		})
		if err != nil {
			return err
		}
		raw, err := json.Marshal(contractsv1.Envelope{
			EventID:          eventID,
			EventType:        contractsv1.EventTypeActionForced,
			OccurredAt:       now,
			SourceService:    "rollout/deployment-service",
			SchemaVersion:    1,
			PartitionKeyPath: "controller_id",
			PartitionKey:     action.ControllerID,
			Data:             payload,
		})
		if err != nil {
			return err
		}
		if err := e.Outbox.EnqueueOutbox(ctx, ports.OutboxMessage{
			OutboxID:  eventID,
			EventType: contractsv1.EventTypeActionForced,
			Payload:   raw,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		// Marking last keeps the announcement at-least-once; consumers
		// treat the forced event as idempotent.
		escalated := true
		if err := e.Actions.UpdateAction(ctx, action.ActionID, ports.ActionUpdate{
			ForceEscalated: &escalated,
			UpdatedAt:      now,
		}); err != nil {
			logger.Error("forced time mark failed",
				"event", "forced_time_mark_failed",
				"module", "rollout/deployment-service",
				"layer", "worker",
				"action_id", action.ActionID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("forced time escalation cycle completed",
		"event", "forced_time_escalation_completed",
		"module", "rollout/deployment-service",
		"layer", "worker",
		"escalated_count", len(due),
	)
	return nil
}
