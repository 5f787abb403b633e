package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
)

// AssignDistributionSet deploys one distribution set to a batch of targets.
//
// The call runs in two phases. The validation phase resolves the set and
// every requested target and rejects the whole batch before any mutation.
// The mutation phase then works target by target under that target's lock:
// a target already driven by a live action for the same set counts as
// already assigned and is left untouched; any other live action is
// superseded before the new one is created. A mutation failure on one
// target lands in the result's failure list without aborting the rest.
//
// The shared side of the set composition lock is held for the whole
// mutation phase so module assignment cannot change the set under a batch
// that is mid-flight.
func (s Service) AssignDistributionSet(ctx context.Context, setID string, requests []ports.TargetAssignment) (entities.AssignmentResult, error) {
	setID = strings.TrimSpace(setID)
	if setID == "" {
		return entities.AssignmentResult{}, domainerrors.ErrDistributionSetUnknown
	}
	if len(requests) == 0 {
		return entities.AssignmentResult{}, domainerrors.ErrNoAssignments
	}

	exists, err := s.Sets.SetExists(ctx, setID)
	if err != nil {
		return entities.AssignmentResult{}, err
	}
	if !exists {
		return entities.AssignmentResult{}, domainerrors.ErrDistributionSetUnknown
	}

	seen := make(map[string]struct{}, len(requests))
	for i := range requests {
		requests[i].ControllerID = strings.TrimSpace(requests[i].ControllerID)
		controllerID := requests[i].ControllerID
		if controllerID == "" {
			return entities.AssignmentResult{}, domainerrors.ErrInvalidAssignment
		}
		if _, dup := seen[controllerID]; dup {
			return entities.AssignmentResult{}, domainerrors.ErrInvalidAssignment
		}
		seen[controllerID] = struct{}{}

		if requests[i].Type == "" {
			requests[i].Type = entities.ActionTypeForced
		}
		if !requests[i].Type.Valid() {
			return entities.AssignmentResult{}, domainerrors.ErrInvalidActionType
		}
		if requests[i].Type == entities.ActionTypeTimeForced && requests[i].ForcedTime == nil {
			return entities.AssignmentResult{}, domainerrors.ErrInvalidAssignment
		}
		if requests[i].Type != entities.ActionTypeTimeForced && requests[i].ForcedTime != nil {
			return entities.AssignmentResult{}, domainerrors.ErrInvalidAssignment
		}

		if _, err := s.Targets.GetTarget(ctx, controllerID); err != nil {
			if errors.Is(err, domainerrors.ErrTargetUnknown) {
				return entities.AssignmentResult{}, domainerrors.ErrTargetUnknown
			}
			return entities.AssignmentResult{}, err
		}
	}

	s.Guard.RLock(setID)
	defer s.Guard.RUnlock(setID)

	result := entities.AssignmentResult{Total: len(requests)}
	for _, request := range requests {
		outcome, err := s.assignOne(ctx, setID, request)
		if err != nil {
			result.Failures = append(result.Failures, entities.AssignmentFailure{
				ControllerID: request.ControllerID,
				Reason:       err.Error(),
			})
			ResolveLogger(s.Logger).Error("target assignment failed",
				"event", "action_assignment_failed",
				"module", "rollout/deployment-service",
				"layer", "application",
				"set_id", setID,
				"controller_id", request.ControllerID,
				"error", err.Error(),
			)
			continue
		}
		if outcome.alreadyAssigned {
			result.AlreadyAssigned++
			continue
		}
		result.Assigned++
	}

	ResolveLogger(s.Logger).Info("distribution set assigned",
		"event", "distribution_set_assigned",
		"module", "rollout/deployment-service",
		"layer", "application",
		"set_id", setID,
		"assigned", result.Assigned,
		"already_assigned", result.AlreadyAssigned,
		"total", result.Total,
	)
	return result, nil
}

type assignOutcome struct {
	alreadyAssigned bool
	actionID        string
}

// assignOne is the per-target critical section: supersede, create, repoint.
func (s Service) assignOne(ctx context.Context, setID string, request ports.TargetAssignment) (assignOutcome, error) {
	controllerID := request.ControllerID
	s.Locks.Lock(controllerID)
	defer s.Locks.Unlock(controllerID)

	target, err := s.Targets.GetTarget(ctx, controllerID)
	if err != nil {
		return assignOutcome{}, err
	}

	now := s.Clock.Now().UTC()

	active, hasActive, err := s.Actions.ActiveAction(ctx, controllerID)
	if err != nil {
		return assignOutcome{}, err
	}
	if hasActive {
		if active.SetID == setID && target.AssignedSetID != nil && *target.AssignedSetID == setID {
			return assignOutcome{alreadyAssigned: true, actionID: active.ActionID}, nil
		}
		if err := s.supersede(ctx, active, now); err != nil {
			return assignOutcome{}, err
		}
	}

	actionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return assignOutcome{}, err
	}
	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return assignOutcome{}, err
	}
	action := entities.Action{
		ActionID:     actionID,
		ControllerID: controllerID,
		SetID:        setID,
		Type:         request.Type,
		ForcedTime:   request.ForcedTime,
		Status:       entities.ActionStatusPending,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	first := entities.ActionStatusEntry{
		EntryID:    entryID,
		ActionID:   actionID,
		Status:     entities.ActionStatusPending,
		Messages:   []string{fmt.Sprintf("assignment of distribution set %s requested", setID)},
		OccurredAt: now,
	}
	if err := s.Actions.CreateAction(ctx, action, first); err != nil {
		return assignOutcome{}, err
	}

	if err := s.Targets.UpdatePointers(ctx, controllerID, ports.TargetPointers{
		AssignedSetID:  &setID,
		SetAssigned:    true,
		ActiveActionID: &actionID,
		SetActive:      true,
		UpdatedAt:      now,
	}); err != nil {
		return assignOutcome{}, err
	}

	if err := s.enqueueEvent(ctx, contractsv1.EventTypeActionCreated, actionEventData{
		ActionID:     actionID,
		ControllerID: controllerID,
		SetID:        setID,
		Status:       string(entities.ActionStatusPending),
	}, now); err != nil {
		return assignOutcome{}, err
	}
	return assignOutcome{actionID: actionID}, nil
}
