package unit

import (
	"context"
	"sync"
	"testing"
	"time"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	deploymentservice "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []ports.ActionEvent
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.ActionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []ports.ActionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ActionEvent(nil), p.events...)
}

func TestOutboxRelayPublishesAndMarksRows(t *testing.T) {
	publisher := &capturePublisher{}
	module := deploymentservice.NewInMemoryModule([]string{"device-1"}, []string{"ds-1"}, nil, publisher, nil)
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	events := publisher.published()
	if len(events) != 1 {
		t.Fatalf("expected one published event, got %d", len(events))
	}
	if events[0].EventType != contractsv1.EventTypeActionCreated {
		t.Fatalf("expected action created event, got %s", events[0].EventType)
	}
	if events[0].PartitionKey != "device-1" {
		t.Fatalf("events must partition by controller id, got %q", events[0].PartitionKey)
	}

	// A second cycle must not republish marked rows.
	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if got := len(publisher.published()); got != 1 {
		t.Fatalf("relay republished marked rows, got %d events", got)
	}
}

func TestOutboxRelayCarriesCancellationStopID(t *testing.T) {
	publisher := &capturePublisher{}
	module := deploymentservice.NewInMemoryModule([]string{"device-1"}, []string{"ds-1"}, nil, publisher, nil)
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	if _, err := module.Service.RequestCancel(ctx, *state.ActiveActionID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	events := publisher.published()
	if len(events) != 2 {
		t.Fatalf("expected created+canceling events, got %d", len(events))
	}
	if events[1].EventType != contractsv1.EventTypeActionCanceling {
		t.Fatalf("expected canceling event, got %s", events[1].EventType)
	}
}

func TestForcedTimeEscalatorAnnouncesOnce(t *testing.T) {
	module := deploymentservice.NewInMemoryModule([]string{"device-1"}, []string{"ds-1"}, nil, nil, nil)
	ctx := context.Background()

	due := time.Now().UTC().Add(-time.Minute)
	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeTimeForced, ForcedTime: &due},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if err := module.Escalator.RunOnce(ctx); err != nil {
		t.Fatalf("escalator run failed: %v", err)
	}

	publisher := &capturePublisher{}
	relay := module.Relay
	relay.Publisher = publisher
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	forced := 0
	for _, event := range publisher.published() {
		if event.EventType == contractsv1.EventTypeActionForced {
			forced++
		}
	}
	if forced != 1 {
		t.Fatalf("expected one forced escalation event, got %d", forced)
	}

	// The escalation flag keeps repeat cycles quiet.
	if err := module.Escalator.RunOnce(ctx); err != nil {
		t.Fatalf("second escalator run failed: %v", err)
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	forced = 0
	for _, event := range publisher.published() {
		if event.EventType == contractsv1.EventTypeActionForced {
			forced++
		}
	}
	if forced != 1 {
		t.Fatalf("escalator announced twice, got %d forced events", forced)
	}
}

func TestForcedTimeEscalatorIgnoresFutureAndTerminalActions(t *testing.T) {
	module := deploymentservice.NewInMemoryModule([]string{"device-1", "device-2"}, []string{"ds-1"}, nil, nil, nil)
	ctx := context.Background()

	future := time.Now().UTC().Add(time.Hour)
	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeTimeForced, ForcedTime: &future},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-2", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if err := module.Escalator.RunOnce(ctx); err != nil {
		t.Fatalf("escalator run failed: %v", err)
	}

	actions, err := module.Service.ListActions(ctx, ports.ActionFilter{})
	if err != nil {
		t.Fatalf("list actions failed: %v", err)
	}
	for _, action := range actions {
		if action.ForceEscalated {
			t.Fatalf("action %s escalated without a due forced time", action.ActionID)
		}
	}
}
