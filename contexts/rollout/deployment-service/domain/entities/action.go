package entities

import "time"

// ActionType is the urgency policy of a deployment. It is interpreted by the
// device transport, never altered by the state machine.
type ActionType string

const (
	ActionTypeForced     ActionType = "forced"
	ActionTypeSoft       ActionType = "soft"
	ActionTypeTimeForced ActionType = "timeforced"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionTypeForced, ActionTypeSoft, ActionTypeTimeForced:
		return true
	}
	return false
}

type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusRunning   ActionStatus = "running"
	ActionStatusCanceling ActionStatus = "canceling"
	ActionStatusFinished  ActionStatus = "finished"
	ActionStatusError     ActionStatus = "error"
	ActionStatusCanceled  ActionStatus = "canceled"
)

// Terminal reports whether the status freezes the action. A terminal action
// accepts no further status entries.
func (s ActionStatus) Terminal() bool {
	switch s {
	case ActionStatusFinished, ActionStatusError, ActionStatusCanceled:
		return true
	}
	return false
}

// CanTransition encodes the action lifecycle. Devices may conclude an action
// (success or failure) from any non-terminal state; cancellation must be
// acknowledged from canceling only.
func CanTransition(from ActionStatus, to ActionStatus) bool {
	if from.Terminal() {
		return false
	}
	switch from {
	case ActionStatusPending:
		switch to {
		case ActionStatusRunning, ActionStatusCanceling, ActionStatusCanceled,
			ActionStatusFinished, ActionStatusError:
			return true
		}
	case ActionStatusRunning:
		switch to {
		case ActionStatusRunning, ActionStatusCanceling, ActionStatusFinished, ActionStatusError:
			return true
		}
	case ActionStatusCanceling:
		switch to {
		case ActionStatusCanceling, ActionStatusCanceled, ActionStatusFinished, ActionStatusError:
			return true
		}
	}
	return false
}

// Action is the record of one deployment attempt of a distribution set to
// one target. It is mutated only by appending status entries and becomes
// immutable once terminal.
type Action struct {
	ActionID     string
	ControllerID string
	SetID        string
	Type         ActionType

	// ForcedTime is meaningful only for timeforced actions: the moment the
	// device transport stops treating the action as soft.
	ForcedTime *time.Time

	Status ActionStatus

	// Active marks the action the target is currently driven by. Superseded
	// actions lose the flag even while a cancellation is still in flight.
	Active bool

	// ForceEscalated records that the forced-time worker already announced
	// the escalation for this action.
	ForceEscalated bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Progress is the amount of achieved levels out of the possible maximum, as
// reported by the device.
type Progress struct {
	Cnt int
	Of  int
}

// ActionStatusEntry is one element of an action's append-only history.
type ActionStatusEntry struct {
	EntryID    string
	ActionID   string
	Status     ActionStatus
	Messages   []string
	Progress   *Progress
	OccurredAt time.Time
}

// AssignmentResult aggregates a multi-target assignment. It is computed per
// call, never persisted.
type AssignmentResult struct {
	Assigned        int
	AlreadyAssigned int
	Total           int
	Failures        []AssignmentFailure
}

// AssignmentFailure reports a mutation-phase error isolated to one target.
type AssignmentFailure struct {
	ControllerID string
	Reason       string
}
