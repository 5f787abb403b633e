package errors

import "errors"

var (
	ErrActionNotFound         = errors.New("action not found")
	ErrActionTerminal         = errors.New("action already terminal")
	ErrActionNotActive        = errors.New("action no longer active")
	ErrActionNotCanceling     = errors.New("action not in canceling state")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidActionType      = errors.New("invalid action type")
	ErrInvalidAssignment      = errors.New("invalid assignment request")
	ErrInvalidFeedback        = errors.New("invalid action feedback")
	ErrTargetUnknown          = errors.New("target unknown")
	ErrDistributionSetUnknown = errors.New("distribution set unknown")
	ErrNoAssignments          = errors.New("assignment request carries no targets")
	ErrNoPendingAction        = errors.New("no pending action for target")
)
