package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// Service drives the full action lifecycle: assignment, device feedback,
// cancellation and the device poll. All per-target work runs under the
// target lock so concurrent requests for one controller serialize.
type Service struct {
	Actions ports.ActionRepository
	Targets ports.TargetRegistry
	Sets    ports.SetCatalog
	Outbox  ports.OutboxRepository
	Locks   ports.TargetLocker
	Guard   ports.SetGuard
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

// actionEventData is the payload carried inside the envelope for every
// rollout event type.
type actionEventData struct {
	ActionID     string `json:"action_id"`
	ControllerID string `json:"controller_id"`
	SetID        string `json:"set_id"`
	Status       string `json:"status"`
	// StopID names the action a device must abort. Present only on
	// canceling events.
	StopID string `json:"stop_id,omitempty"`
}

// enqueueEvent stores an envelope in the outbox. The relay worker publishes
// it later; assignment and feedback never talk to the broker directly.
func (s Service) enqueueEvent(ctx context.Context, eventType string, data actionEventData, now time.Time) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope := contractsv1.Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       now,
		SourceService:    "rollout/deployment-service",
		SchemaVersion:    1,
		PartitionKeyPath: "controller_id",
		PartitionKey:     data.ControllerID,
		Data:             payload,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return s.Outbox.EnqueueOutbox(ctx, ports.OutboxMessage{
		OutboxID:  eventID,
		EventType: eventType,
		Payload:   raw,
		CreatedAt: now,
	})
}
