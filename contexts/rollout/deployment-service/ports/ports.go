package ports

import (
	"context"
	"time"

	contractsv1 "github.com/sergeysedoy97/hawkbit/contracts/gen/events/v1"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
)

// ActionFilter narrows action listings. Zero values mean "any".
type ActionFilter struct {
	ControllerID string
	SetID        string
	Status       entities.ActionStatus
	ActiveOnly   bool
	Limit        int
	Offset       int
}

// ActionUpdate mutates the bookkeeping fields of a non-terminal action.
// Status transitions always travel together with an appended history entry.
type ActionUpdate struct {
	Status         *entities.ActionStatus
	Active         *bool
	ForceEscalated *bool
	UpdatedAt      time.Time
}

// ActionRepository persists actions and their append-only history. The store
// itself rejects any mutation of a terminal action with ErrActionTerminal;
// callers do not get to bypass the freeze.
type ActionRepository interface {
	CreateAction(ctx context.Context, action entities.Action, first entities.ActionStatusEntry) error
	GetAction(ctx context.Context, actionID string) (entities.Action, error)
	ListActions(ctx context.Context, filter ActionFilter) ([]entities.Action, error)
	UpdateAction(ctx context.Context, actionID string, update ActionUpdate) error
	AppendStatus(ctx context.Context, actionID string, update ActionUpdate, entry entities.ActionStatusEntry) error
	ListStatusEntries(ctx context.Context, actionID string) ([]entities.ActionStatusEntry, error)
	ActiveAction(ctx context.Context, controllerID string) (entities.Action, bool, error)
	CountOpenActionsBySet(ctx context.Context, setID string) (int, error)
	ListEscalatableActions(ctx context.Context, now time.Time, limit int) ([]entities.Action, error)
}

// TargetView is the slice of a provisioning target the rollout side needs.
type TargetView struct {
	ControllerID  string
	AssignedSetID *string
}

// TargetPointers moves the assigned/installed/active markers of a target.
type TargetPointers struct {
	AssignedSetID  *string
	SetAssigned    bool
	InstalledSetID *string
	SetInstalled   bool
	ActiveActionID *string
	SetActive      bool
	UpdatedAt      time.Time
}

// TargetRegistry resolves targets and moves their deployment pointers.
type TargetRegistry interface {
	GetTarget(ctx context.Context, controllerID string) (TargetView, error)
	UpdatePointers(ctx context.Context, controllerID string, pointers TargetPointers) error
}

// SetCatalog answers whether a distribution set exists without exposing its
// composition.
type SetCatalog interface {
	SetExists(ctx context.Context, setID string) (bool, error)
}

// TargetLocker serializes assignment and feedback per controller so that
// concurrent requests for the same target observe each other's writes.
type TargetLocker interface {
	Lock(controllerID string)
	Unlock(controllerID string)
}

// SetGuard takes the shared side of the distribution set composition lock for
// the duration of an assignment read.
type SetGuard interface {
	RLock(setID string)
	RUnlock(setID string)
}

// TargetAssignment is one target's slot in a multi-assignment request.
type TargetAssignment struct {
	ControllerID string
	Type         entities.ActionType
	ForcedTime   *time.Time
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	EnqueueOutbox(ctx context.Context, message OutboxMessage) error
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// ActionEvent reuses the canonical cross-runtime envelope contract.
type ActionEvent = contractsv1.Envelope

// EventPublisher emits action lifecycle events to the event bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event ActionEvent) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
