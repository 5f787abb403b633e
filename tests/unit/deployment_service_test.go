package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	deploymentservice "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/adapters/memory"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
	"github.com/sergeysedoy97/hawkbit/internal/platform/keylock"
)

func newDeploymentModule(targets []string, sets []string) deploymentservice.Module {
	return deploymentservice.NewInMemoryModule(targets, sets, nil, nil, nil)
}

func TestAssignCreatesPendingActionAndMovesPointers(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})

	result, err := module.Service.AssignDistributionSet(context.Background(), "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if result.Assigned != 1 || result.AlreadyAssigned != 0 || result.Total != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	state, ok := module.Store.TargetState("device-1")
	if !ok {
		t.Fatal("target state missing")
	}
	if state.AssignedSetID == nil || *state.AssignedSetID != "ds-1" {
		t.Fatalf("assigned pointer not moved: %+v", state)
	}
	if state.ActiveActionID == nil {
		t.Fatal("active action pointer not set")
	}

	action, err := module.Service.GetAction(context.Background(), *state.ActiveActionID)
	if err != nil {
		t.Fatalf("get action failed: %v", err)
	}
	if action.Status != entities.ActionStatusPending || !action.Active {
		t.Fatalf("expected active pending action, got %+v", action)
	}
}

func TestAssignSameSetTwiceIsIdempotent(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	requests := []ports.TargetAssignment{{ControllerID: "device-1", Type: entities.ActionTypeForced}}
	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", requests); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	second, err := module.Service.AssignDistributionSet(ctx, "ds-1", requests)
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}
	if second.Assigned != 0 || second.AlreadyAssigned != 1 {
		t.Fatalf("expected idempotent second call, got %+v", second)
	}

	actions, err := module.Service.ListActions(ctx, ports.ActionFilter{ControllerID: "device-1"})
	if err != nil {
		t.Fatalf("list actions failed: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %d", len(actions))
	}
}

func TestAssignAfterTerminalCreatesFreshAction(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	requests := []ports.TargetAssignment{{ControllerID: "device-1", Type: entities.ActionTypeForced}}
	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", requests); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	state, _ := module.Store.TargetState("device-1")
	if _, err := module.Service.ReportActionStatus(ctx, *state.ActiveActionID, application.FeedbackInput{
		Status: application.FeedbackFinished,
	}); err != nil {
		t.Fatalf("finish feedback failed: %v", err)
	}

	again, err := module.Service.AssignDistributionSet(ctx, "ds-1", requests)
	if err != nil {
		t.Fatalf("re-assign failed: %v", err)
	}
	if again.Assigned != 1 || again.AlreadyAssigned != 0 {
		t.Fatalf("expected a fresh action after terminal, got %+v", again)
	}
}

func TestDeviceLifecycleMovesInstalledPointer(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	pending, err := module.Service.NextPendingAction(ctx, "device-1")
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if pending.Stop {
		t.Fatal("fresh action must not carry a stop directive")
	}
	actionID := pending.Action.ActionID

	action, err := module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{
		Status:   application.FeedbackProceeding,
		Progress: &entities.Progress{Cnt: 5, Of: 10},
	})
	if err != nil {
		t.Fatalf("progress feedback failed: %v", err)
	}
	if action.Status != entities.ActionStatusRunning {
		t.Fatalf("expected running after progress, got %s", action.Status)
	}

	action, err = module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{
		Status: application.FeedbackFinished,
	})
	if err != nil {
		t.Fatalf("finish feedback failed: %v", err)
	}
	if action.Status != entities.ActionStatusFinished || action.Active {
		t.Fatalf("expected inactive finished action, got %+v", action)
	}

	state, _ := module.Store.TargetState("device-1")
	if state.InstalledSetID == nil || *state.InstalledSetID != "ds-1" {
		t.Fatalf("installed pointer not moved: %+v", state)
	}
	if state.ActiveActionID != nil {
		t.Fatal("active action pointer not cleared after finish")
	}

	entries, err := module.Service.ListActionStatuses(ctx, actionID)
	if err != nil {
		t.Fatalf("list statuses failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected pending+running+finished history, got %d entries", len(entries))
	}
	if entries[1].Progress == nil || entries[1].Progress.Cnt != 5 || entries[1].Progress.Of != 10 {
		t.Fatalf("progress not recorded: %+v", entries[1])
	}
}

func TestFailureFeedbackLeavesInstalledPointerUntouched(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")

	action, err := module.Service.ReportActionStatus(ctx, *state.ActiveActionID, application.FeedbackInput{
		Status:   application.FeedbackError,
		Messages: []string{"flash verification failed"},
	})
	if err != nil {
		t.Fatalf("error feedback failed: %v", err)
	}
	if action.Status != entities.ActionStatusError {
		t.Fatalf("expected error status, got %s", action.Status)
	}

	state, _ = module.Store.TargetState("device-1")
	if state.InstalledSetID != nil {
		t.Fatalf("installed pointer must not move on failure: %+v", state)
	}
	if state.ActiveActionID != nil {
		t.Fatal("active action pointer not cleared after failure")
	}
}

func TestTerminalActionRejectsFurtherFeedback(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	actionID := *state.ActiveActionID

	if _, err := module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{
		Status: application.FeedbackFinished,
	}); err != nil {
		t.Fatalf("finish feedback failed: %v", err)
	}

	for _, status := range []string{
		application.FeedbackProceeding,
		application.FeedbackFinished,
		application.FeedbackError,
		application.FeedbackCanceled,
	} {
		if _, err := module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{Status: status}); !errors.Is(err, domainerrors.ErrActionTerminal) {
			t.Fatalf("feedback %q on terminal action: expected terminal conflict, got %v", status, err)
		}
	}
}

func TestSupersedePendingActionCancelsItDirectly(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1", "ds-2"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign ds-1 failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	firstID := *state.ActiveActionID

	result, err := module.Service.AssignDistributionSet(ctx, "ds-2", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	})
	if err != nil {
		t.Fatalf("assign ds-2 failed: %v", err)
	}
	if result.Assigned != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	first, err := module.Service.GetAction(ctx, firstID)
	if err != nil {
		t.Fatalf("get superseded action failed: %v", err)
	}
	if first.Status != entities.ActionStatusCanceled || first.Active {
		t.Fatalf("pending action must be canceled outright on supersede, got %+v", first)
	}

	state, _ = module.Store.TargetState("device-1")
	if state.AssignedSetID == nil || *state.AssignedSetID != "ds-2" {
		t.Fatalf("assigned pointer not repointed: %+v", state)
	}
	if *state.ActiveActionID == firstID {
		t.Fatal("active action pointer still references superseded action")
	}
}

func TestSupersedeRunningActionAwaitsDeviceAck(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1", "ds-2"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign ds-1 failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	firstID := *state.ActiveActionID

	if _, err := module.Service.ReportActionStatus(ctx, firstID, application.FeedbackInput{
		Status: application.FeedbackProceeding,
	}); err != nil {
		t.Fatalf("progress feedback failed: %v", err)
	}

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-2", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign ds-2 failed: %v", err)
	}

	first, err := module.Service.GetAction(ctx, firstID)
	if err != nil {
		t.Fatalf("get superseded action failed: %v", err)
	}
	if first.Status != entities.ActionStatusCanceling || first.Active {
		t.Fatalf("running action must move to canceling on supersede, got %+v", first)
	}

	// Progress for the superseded action is stale.
	if _, err := module.Service.ReportActionStatus(ctx, firstID, application.FeedbackInput{
		Status: application.FeedbackProceeding,
	}); !errors.Is(err, domainerrors.ErrActionNotActive) {
		t.Fatalf("expected stale-report conflict, got %v", err)
	}

	// The device acknowledging the stop closes it.
	first, err = module.Service.ReportActionStatus(ctx, firstID, application.FeedbackInput{
		Status: application.FeedbackCanceled,
	})
	if err != nil {
		t.Fatalf("cancel ack failed: %v", err)
	}
	if first.Status != entities.ActionStatusCanceled {
		t.Fatalf("expected canceled after ack, got %s", first.Status)
	}
}

func TestRequestCancelIsIdempotent(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	actionID := *state.ActiveActionID

	action, err := module.Service.RequestCancel(ctx, actionID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if action.Status != entities.ActionStatusCanceling {
		t.Fatalf("expected canceling, got %s", action.Status)
	}

	again, err := module.Service.RequestCancel(ctx, actionID)
	if err != nil {
		t.Fatalf("second cancel must be a no-op success: %v", err)
	}
	if again.Status != entities.ActionStatusCanceling {
		t.Fatalf("expected canceling after repeat, got %s", again.Status)
	}

	entries, err := module.Service.ListActionStatuses(ctx, actionID)
	if err != nil {
		t.Fatalf("list statuses failed: %v", err)
	}
	canceling := 0
	for _, entry := range entries {
		if entry.Status == entities.ActionStatusCanceling {
			canceling++
		}
	}
	if canceling != 1 {
		t.Fatalf("expected exactly one canceling entry, got %d", canceling)
	}

	pending, err := module.Service.NextPendingAction(ctx, "device-1")
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if !pending.Stop || pending.StopID != actionID {
		t.Fatalf("poll must carry the stop directive, got %+v", pending)
	}
}

func TestProgressWhileCancelingIsRecordedWithoutRegressing(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	actionID := *state.ActiveActionID

	if _, err := module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{
		Status: application.FeedbackProceeding,
	}); err != nil {
		t.Fatalf("progress feedback failed: %v", err)
	}
	if _, err := module.Service.RequestCancel(ctx, actionID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// A device that has not yet seen the stop directive keeps reporting
	// progress; the action stays canceling and the entry is kept.
	action, err := module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{
		Status:   application.FeedbackProceeding,
		Progress: &entities.Progress{Cnt: 7, Of: 10},
	})
	if err != nil {
		t.Fatalf("progress while canceling failed: %v", err)
	}
	if action.Status != entities.ActionStatusCanceling {
		t.Fatalf("progress regressed a canceling action to %s", action.Status)
	}

	entries, err := module.Service.ListActionStatuses(ctx, actionID)
	if err != nil {
		t.Fatalf("list statuses failed: %v", err)
	}
	last := entries[len(entries)-1]
	if last.Status != entities.ActionStatusCanceling || last.Progress == nil || last.Progress.Cnt != 7 {
		t.Fatalf("progress entry not recorded: %+v", last)
	}
}

func TestCancelTerminalActionConflicts(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	actionID := *state.ActiveActionID

	if _, err := module.Service.ReportActionStatus(ctx, actionID, application.FeedbackInput{
		Status: application.FeedbackFinished,
	}); err != nil {
		t.Fatalf("finish feedback failed: %v", err)
	}
	if _, err := module.Service.RequestCancel(ctx, actionID); !errors.Is(err, domainerrors.ErrActionTerminal) {
		t.Fatalf("expected terminal conflict, got %v", err)
	}
}

func TestForceQuitOnlyFromCanceling(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	state, _ := module.Store.TargetState("device-1")
	actionID := *state.ActiveActionID

	if _, err := module.Service.ForceQuitAction(ctx, actionID); !errors.Is(err, domainerrors.ErrActionNotCanceling) {
		t.Fatalf("force quit outside canceling: expected conflict, got %v", err)
	}

	if _, err := module.Service.RequestCancel(ctx, actionID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	action, err := module.Service.ForceQuitAction(ctx, actionID)
	if err != nil {
		t.Fatalf("force quit failed: %v", err)
	}
	if action.Status != entities.ActionStatusCanceled || action.Active {
		t.Fatalf("expected canceled inactive action, got %+v", action)
	}

	state, _ = module.Store.TargetState("device-1")
	if state.ActiveActionID != nil {
		t.Fatal("active action pointer not cleared after force quit")
	}
}

func TestAssignValidationRejectsBadBatches(t *testing.T) {
	module := newDeploymentModule([]string{"device-1", "device-2"}, []string{"ds-1"})
	ctx := context.Background()
	forced := time.Now().UTC().Add(time.Hour)

	cases := []struct {
		name     string
		setID    string
		requests []ports.TargetAssignment
		want     error
	}{
		{"unknown set", "ds-404", []ports.TargetAssignment{{ControllerID: "device-1"}}, domainerrors.ErrDistributionSetUnknown},
		{"empty batch", "ds-1", nil, domainerrors.ErrNoAssignments},
		{"unknown target", "ds-1", []ports.TargetAssignment{{ControllerID: "ghost"}}, domainerrors.ErrTargetUnknown},
		{"duplicate controller", "ds-1", []ports.TargetAssignment{
			{ControllerID: "device-1"}, {ControllerID: "device-1"},
		}, domainerrors.ErrInvalidAssignment},
		{"bad type", "ds-1", []ports.TargetAssignment{
			{ControllerID: "device-1", Type: "urgent"},
		}, domainerrors.ErrInvalidActionType},
		{"timeforced without time", "ds-1", []ports.TargetAssignment{
			{ControllerID: "device-1", Type: entities.ActionTypeTimeForced},
		}, domainerrors.ErrInvalidAssignment},
		{"forced time on soft", "ds-1", []ports.TargetAssignment{
			{ControllerID: "device-1", Type: entities.ActionTypeSoft, ForcedTime: &forced},
		}, domainerrors.ErrInvalidAssignment},
	}
	for _, tc := range cases {
		if _, err := module.Service.AssignDistributionSet(ctx, tc.setID, tc.requests); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Validation is fail-fast: the known target in the rejected batches must
	// not have gained an action.
	actions, err := module.Service.ListActions(ctx, ports.ActionFilter{ControllerID: "device-1"})
	if err != nil {
		t.Fatalf("list actions failed: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("rejected batches must not create actions, got %d", len(actions))
	}
}

func TestMultiTargetAssignmentCountsPerTarget(t *testing.T) {
	module := newDeploymentModule([]string{"device-1", "device-2", "device-3"}, []string{"ds-1"})
	ctx := context.Background()

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("seed assign failed: %v", err)
	}

	result, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
		{ControllerID: "device-2", Type: entities.ActionTypeSoft},
		{ControllerID: "device-3", Type: entities.ActionTypeForced},
	})
	if err != nil {
		t.Fatalf("batch assign failed: %v", err)
	}
	if result.Assigned != 2 || result.AlreadyAssigned != 1 || result.Total != 3 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
}

// faultyActionRepository fails action creation for one controller so a batch
// can observe per-target isolation.
type faultyActionRepository struct {
	*memory.Store
	failFor string
}

func (f faultyActionRepository) CreateAction(ctx context.Context, action entities.Action, first entities.ActionStatusEntry) error {
	if action.ControllerID == f.failFor {
		return errors.New("action storage unavailable")
	}
	return f.Store.CreateAction(ctx, action, first)
}

func TestBatchAssignmentIsolatesPerTargetFailures(t *testing.T) {
	store := memory.NewStore([]string{"device-1", "device-2", "device-3"}, []string{"ds-1"})
	module := deploymentservice.NewModule(deploymentservice.Dependencies{
		Actions: faultyActionRepository{Store: store, failFor: "device-2"},
		Targets: store,
		Sets:    store,
		Outbox:  store,
		Locks:   keylock.NewKeyedMutex(),
		Guard:   keylock.NewKeyedRWMutex(),
		Clock:   store,
		IDGen:   store,
	})
	ctx := context.Background()

	result, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
		{ControllerID: "device-2", Type: entities.ActionTypeForced},
		{ControllerID: "device-3", Type: entities.ActionTypeForced},
	})
	if err != nil {
		t.Fatalf("batch assign failed outright: %v", err)
	}
	if result.Assigned != 2 || result.Total != 3 {
		t.Fatalf("healthy targets did not assign: %+v", result)
	}
	if len(result.Failures) != 1 || result.Failures[0].ControllerID != "device-2" {
		t.Fatalf("failure not reported per target: %+v", result.Failures)
	}

	for _, controllerID := range []string{"device-1", "device-3"} {
		state, ok := store.TargetState(controllerID)
		if !ok || state.AssignedSetID == nil || *state.AssignedSetID != "ds-1" {
			t.Fatalf("%s not assigned despite sibling failure: %+v", controllerID, state)
		}
	}
	state, _ := store.TargetState("device-2")
	if state.AssignedSetID != nil || state.ActiveActionID != nil {
		t.Fatalf("failed target gained pointers: %+v", state)
	}
}

func TestIsLockedTracksOpenActions(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})
	ctx := context.Background()

	locked, err := module.Service.IsLocked(ctx, "ds-1")
	if err != nil || locked {
		t.Fatalf("set must be unlocked before any action: locked=%v err=%v", locked, err)
	}

	if _, err := module.Service.AssignDistributionSet(ctx, "ds-1", []ports.TargetAssignment{
		{ControllerID: "device-1", Type: entities.ActionTypeForced},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	locked, err = module.Service.IsLocked(ctx, "ds-1")
	if err != nil || !locked {
		t.Fatalf("set must be locked with an open action: locked=%v err=%v", locked, err)
	}

	state, _ := module.Store.TargetState("device-1")
	if _, err := module.Service.ReportActionStatus(ctx, *state.ActiveActionID, application.FeedbackInput{
		Status: application.FeedbackFinished,
	}); err != nil {
		t.Fatalf("finish feedback failed: %v", err)
	}
	locked, err = module.Service.IsLocked(ctx, "ds-1")
	if err != nil || locked {
		t.Fatalf("set must unlock once actions are terminal: locked=%v err=%v", locked, err)
	}
}

func TestPendingPollForIdleTarget(t *testing.T) {
	module := newDeploymentModule([]string{"device-1"}, []string{"ds-1"})

	if _, err := module.Service.NextPendingAction(context.Background(), "device-1"); !errors.Is(err, domainerrors.ErrNoPendingAction) {
		t.Fatalf("expected no-pending-action, got %v", err)
	}
	if _, err := module.Service.NextPendingAction(context.Background(), "ghost"); !errors.Is(err, domainerrors.ErrTargetUnknown) {
		t.Fatalf("expected unknown target, got %v", err)
	}
}
