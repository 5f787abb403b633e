package application

import (
	"context"
	"strings"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// Device feedback verbs. The device reports what happened; the service maps
// the verb onto the action lifecycle.
const (
	FeedbackProceeding = "proceeding"
	FeedbackFinished   = "finished"
	FeedbackError      = "error"
	FeedbackCanceled   = "canceled"
)

type FeedbackInput struct {
	Status   string
	Messages []string
	Progress *entities.Progress
}

// ReportActionStatus records device feedback for an action.
//
// Progress keeps a pending action moving (it becomes running) and never
// regresses a canceling one. Success and failure close the action from any
// non-terminal state; success additionally moves the target's installed
// pointer to the action's set. A cancel acknowledgement is only meaningful
// while the action is canceling. Feedback for a terminal action and
// progress for a superseded action are stale and rejected.
func (s Service) ReportActionStatus(ctx context.Context, actionID string, input FeedbackInput) (entities.Action, error) {
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

	now := s.Clock.Now().UTC()

	var next entities.ActionStatus
	switch strings.ToLower(strings.TrimSpace(input.Status)) {
	case FeedbackProceeding:
		if !action.Active {
			return entities.Action{}, domainerrors.ErrActionNotActive
		}
		next = entities.ActionStatusRunning
		if action.Status == entities.ActionStatusCanceling {
			next = entities.ActionStatusCanceling
		}
	case FeedbackFinished:
		next = entities.ActionStatusFinished
	case FeedbackError:
		next = entities.ActionStatusError
	case FeedbackCanceled:
		if action.Status != entities.ActionStatusCanceling {
			return entities.Action{}, domainerrors.ErrActionNotCanceling
		}
		next = entities.ActionStatusCanceled
	default:
		return entities.Action{}, domainerrors.ErrInvalidFeedback
	}

	if !entities.CanTransition(action.Status, next) {
		return entities.Action{}, domainerrors.ErrInvalidTransition
	}

	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Action{}, err
	}
	update := ports.ActionUpdate{Status: &next, UpdatedAt: now}
	inactive := false
	if next.Terminal() {
		update.Active = &inactive
	}
	if err := s.Actions.AppendStatus(ctx, action.ActionID, update,
		entities.ActionStatusEntry{
			EntryID:    entryID,
			ActionID:   action.ActionID,
			Status:     next,
			Messages:   input.Messages,
			Progress:   input.Progress,
			OccurredAt: now,
		}); err != nil {
		return entities.Action{}, err
	}

	if next.Terminal() {
		pointers := ports.TargetPointers{UpdatedAt: now}
		if action.Active {
			pointers.ActiveActionID = nil
			pointers.SetActive = true
		}
		if next == entities.ActionStatusFinished {
			installed := action.SetID
			pointers.InstalledSetID = &installed
			pointers.SetInstalled = true
		}
		if pointers.SetActive || pointers.SetInstalled {
			if err := s.Targets.UpdatePointers(ctx, action.ControllerID, pointers); err != nil {
				return entities.Action{}, err
			}
		}
	}

	if err := s.enqueueEvent(ctx, contractsv1.EventTypeActionStatus, actionEventData{
		ActionID:     action.ActionID,
		ControllerID: action.ControllerID,
		SetID:        action.SetID,
		Status:       string(next),
	}, now); err != nil {
		return entities.Action{}, err
	}

	ResolveLogger(s.Logger).Info("action status reported",
		"event", "action_status_reported",
		"module", "rollout/deployment-service",
		"layer", "application",
		"action_id", action.ActionID,
		"controller_id", action.ControllerID,
		"status", string(next),
	)

	action.Status = next
	if next.Terminal() {
		action.Active = false
	}
	action.UpdatedAt = now
	return action, nil
}
