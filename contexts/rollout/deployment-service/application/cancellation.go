package application

import (
	"context"
	"strings"
	"time"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// supersede resolves the previously active action inside the caller's
// per-target critical section. A pending action never reached the device,
// so it is canceled outright; a running one needs the device to stop and
// moves to canceling with a stop directive. Either way the action loses
// its active flag so the replacement is the only one driving the target.
func (s Service) supersede(ctx context.Context, active entities.Action, now time.Time) error {
	inactive := false

	switch active.Status {
	case entities.ActionStatusPending:
		canceled := entities.ActionStatusCanceled
		entryID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		return s.Actions.AppendStatus(ctx, active.ActionID,
			ports.ActionUpdate{Status: &canceled, Active: &inactive, UpdatedAt: now},
			entities.ActionStatusEntry{
				EntryID:    entryID,
				ActionID:   active.ActionID,
				Status:     canceled,
				Messages:   []string{"superseded by a newer assignment"},
				OccurredAt: now,
			})

	case entities.ActionStatusRunning:
		canceling := entities.ActionStatusCanceling
		entryID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		if err := s.Actions.AppendStatus(ctx, active.ActionID,
			ports.ActionUpdate{Status: &canceling, Active: &inactive, UpdatedAt: now},
			entities.ActionStatusEntry{
				EntryID:    entryID,
				ActionID:   active.ActionID,
				Status:     canceling,
				Messages:   []string{"superseded by a newer assignment, stop requested"},
				OccurredAt: now,
			}); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, contractsv1.EventTypeActionCanceling, actionEventData{
			ActionID:     active.ActionID,
			ControllerID: active.ControllerID,
			SetID:        active.SetID,
			Status:       string(canceling),
			StopID:       active.ActionID,
		}, now)

	case entities.ActionStatusCanceling:
		// Stop already requested, only the active flag moves.
		return s.Actions.UpdateAction(ctx, active.ActionID,
			ports.ActionUpdate{Active: &inactive, UpdatedAt: now})
	}
	return nil
}

// RequestCancel asks the device to abort an action. Canceling an action
// that is already canceling is a no-op success; a terminal action cannot
// be canceled anymore.
func (s Service) RequestCancel(ctx context.Context, actionID string) (entities.Action, error) {
	action, err := s.Actions.GetAction(ctx, strings.TrimSpace(actionID))
	if err != nil {
		return entities.Action{}, err
	}

	s.Locks.Lock(action.ControllerID)
	defer s.Locks.Unlock(action.ControllerID)

	action, err = s.Actions.GetAction(ctx, action.ActionID)
	if err != nil {
		return entities.Action{}, err
	}
	if action.Status.Terminal() {
		return entities.Action{}, domainerrors.ErrActionTerminal
	}
	if action.Status == entities.ActionStatusCanceling {
		return action, nil
	}

	now := s.Clock.Now().UTC()
	canceling := entities.ActionStatusCanceling
	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Action{}, err
	}
	if err := s.Actions.AppendStatus(ctx, action.ActionID,
		ports.ActionUpdate{Status: &canceling, UpdatedAt: now},
		entities.ActionStatusEntry{
			EntryID:    entryID,
			ActionID:   action.ActionID,
			Status:     canceling,
			Messages:   []string{"cancellation requested"},
			OccurredAt: now,
		}); err != nil {
		return entities.Action{}, err
	}
	if err := s.enqueueEvent(ctx, contractsv1.EventTypeActionCanceling, actionEventData{
		ActionID:     action.ActionID,
		ControllerID: action.ControllerID,
		SetID:        action.SetID,
		Status:       string(canceling),
		StopID:       action.ActionID,
	}, now); err != nil {
		return entities.Action{}, err
	}

	ResolveLogger(s.Logger).Info("action cancellation requested",
		"event", "action_cancel_requested",
		"module", "rollout/deployment-service",
		"layer", "application",
		"action_id", action.ActionID,
		"controller_id", action.ControllerID,
	)

	action.Status = canceling
	action.UpdatedAt = now
	return action, nil
}

// ForceQuitAction closes a canceling action without waiting for the device
// acknowledgement. It is an administrative override for devices that will
// never answer; an action in any other state cannot be force quit.
func (s Service) ForceQuitAction(ctx context.Context, actionID string) (entities.Action, error) {
	action, err := s.Actions.GetAction(ctx, strings.TrimSpace(actionID))
	if err != nil {
		return entities.Action{}, err
	}

	s.Locks.Lock(action.ControllerID)
	defer s.Locks.Unlock(action.ControllerID)

	action, err = s.Actions.GetAction(ctx, action.ActionID)
	if err != nil {
		return entities.Action{}, err
	}
	if action.Status.Terminal() {
		return entities.Action{}, domainerrors.ErrActionTerminal
	}
	if action.Status != entities.ActionStatusCanceling {
		return entities.Action{}, domainerrors.ErrActionNotCanceling
	}

	now := s.Clock.Now().UTC()
	canceled := entities.ActionStatusCanceled
	inactive := false
	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Action{}, err
	}
	if err := s.Actions.AppendStatus(ctx, action.ActionID,
		ports.ActionUpdate{Status: &canceled, Active: &inactive, UpdatedAt: now},
		entities.ActionStatusEntry{
			EntryID:    entryID,
			ActionID:   action.ActionID,
			Status:     canceled,
			Messages:   []string{"force quit without device acknowledgement"},
			OccurredAt: now,
		}); err != nil {
		return entities.Action{}, err
	}

	if err := s.clearActivePointer(ctx, action, now); err != nil {
		return entities.Action{}, err
	}

	ResolveLogger(s.Logger).Info("action force quit",
		"event", "action_force_quit",
		"module", "rollout/deployment-service",
		"layer", "application",
		"action_id", action.ActionID,
		"controller_id", action.ControllerID,
	)

	action.Status = canceled
	action.Active = false
	action.UpdatedAt = now
	return action, nil
}

// clearActivePointer drops the target's active action reference when the
// given action was the one driving it.
func (s Service) clearActivePointer(ctx context.Context, action entities.Action, now time.Time) error {
	if !action.Active {
		return nil
	}
	return s.Targets.UpdatePointers(ctx, action.ControllerID, ports.TargetPointers{
		ActiveActionID: nil,
		SetActive:      true,
		UpdatedAt:      now,
	})
}
