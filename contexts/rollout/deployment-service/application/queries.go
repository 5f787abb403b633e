package application

import (
	"context"
	"strings"

	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

func (s Service) GetAction(ctx context.Context, actionID string) (entities.Action, error) {
	return s.Actions.GetAction(ctx, strings.TrimSpace(actionID))
}

func (s Service) ListActions(ctx context.Context, filter ports.ActionFilter) ([]entities.Action, error) {
	return s.Actions.ListActions(ctx, filter)
}

// ListActionStatuses returns the ordered history of an action, oldest first.
func (s Service) ListActionStatuses(ctx context.Context, actionID string) ([]entities.ActionStatusEntry, error) {
	actionID = strings.TrimSpace(actionID)
	if _, err := s.Actions.GetAction(ctx, actionID); err != nil {
		return nil, err
	}
	return s.Actions.ListStatusEntries(ctx, actionID)
}

// IsLocked reports whether any non-terminal action still references the
// distribution set. The repository context consults this through its lock
// checker port before mutating the set's composition.
func (s Service) IsLocked(ctx context.Context, setID string) (bool, error) {
	open, err := s.Actions.CountOpenActionsBySet(ctx, strings.TrimSpace(setID))
	if err != nil {
		return false, err
	}
	return open > 0, nil
}

// PendingAction is what a polling device receives: the action currently
// driving it, and whether the device must stop instead of proceeding.
type PendingAction struct {
	Action entities.Action
	Stop   bool
	StopID string
}

// NextPendingAction serves the device poll. The stop flag carries the
// cancellation downstream: a canceling action tells the device which action
// id to abort.
func (s Service) NextPendingAction(ctx context.Context, controllerID string) (PendingAction, error) {
	controllerID = strings.TrimSpace(controllerID)
	if _, err := s.Targets.GetTarget(ctx, controllerID); err != nil {
		return PendingAction{}, err
	}
	action, ok, err := s.Actions.ActiveAction(ctx, controllerID)
	if err != nil {
		return PendingAction{}, err
	}
	if !ok {
		return PendingAction{}, domainerrors.ErrNoPendingAction
	}
	pending := PendingAction{Action: action}
	if action.Status == entities.ActionStatusCanceling {
		pending.Stop = true
		pending.StopID = action.ActionID
	}
	return pending, nil
}
