package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/entities"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"

	"github.com/google/uuid"
)

// TargetState is the registry record kept per target. Tests read it back to
// assert pointer movement.
type TargetState struct {
	ControllerID   string
	AssignedSetID  *string
	InstalledSetID *string
	ActiveActionID *string
}

type Store struct {
	mu        sync.RWMutex
	actions   map[string]entities.Action
	entries   map[string][]entities.ActionStatusEntry
	targets   map[string]TargetState
	sets      map[string]struct{}
	outbox    []ports.OutboxMessage
	published map[string]bool
}

func NewStore(seedTargets []string, seedSets []string) *Store {
	store := &Store{
		actions:   make(map[string]entities.Action),
		entries:   make(map[string][]entities.ActionStatusEntry),
		targets:   make(map[string]TargetState),
		sets:      make(map[string]struct{}),
		published: make(map[string]bool),
	}
	for _, controllerID := range seedTargets {
		store.targets[controllerID] = TargetState{ControllerID: controllerID}
	}
	for _, setID := range seedSets {
		store.sets[setID] = struct{}{}
	}
	return store
}

func (s *Store) AddTarget(controllerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[controllerID] = TargetState{ControllerID: controllerID}
}

func (s *Store) AddSet(setID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[setID] = struct{}{}
}

func (s *Store) CreateAction(_ context.Context, action entities.Action, first entities.ActionStatusEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(action.ActionID)
	if id == "" {
		return domainerrors.ErrActionNotFound
	}
	if _, exists := s.actions[id]; exists {
		return domainerrors.ErrInvalidTransition
	}
	s.actions[id] = action
	s.entries[id] = append(s.entries[id], first)
	return nil
}

func (s *Store) GetAction(_ context.Context, actionID string) (entities.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	action, ok := s.actions[strings.TrimSpace(actionID)]
	if !ok {
		return entities.Action{}, domainerrors.ErrActionNotFound
	}
	return action, nil
}

func (s *Store) ListActions(_ context.Context, filter ports.ActionFilter) ([]entities.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	items := make([]entities.Action, 0)
	for _, action := range s.actions {
		if filter.ControllerID != "" && action.ControllerID != filter.ControllerID {
			continue
		}
		if filter.SetID != "" && action.SetID != filter.SetID {
			continue
		}
		if filter.Status != "" && action.Status != filter.Status {
			continue
		}
		if filter.ActiveOnly && !action.Active {
			continue
		}
		items = append(items, action)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ActionID < items[j].ActionID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	if offset >= len(items) {
		return []entities.Action{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Action(nil), items[offset:end]...), nil
}

// applyUpdate mutates an action in place. Terminal actions are frozen here,
// not in callers.
func (s *Store) applyUpdate(actionID string, update ports.ActionUpdate) (entities.Action, error) {
	id := strings.TrimSpace(actionID)
	action, ok := s.actions[id]
	if !ok {
		return entities.Action{}, domainerrors.ErrActionNotFound
	}
	if action.Status.Terminal() {
		return entities.Action{}, domainerrors.ErrActionTerminal
	}
	if update.Status != nil {
		action.Status = *update.Status
	}
	if update.Active != nil {
		action.Active = *update.Active
	}
	if update.ForceEscalated != nil {
		action.ForceEscalated = *update.ForceEscalated
	}
	action.UpdatedAt = update.UpdatedAt
	s.actions[id] = action
	return action, nil
}

func (s *Store) UpdateAction(_ context.Context, actionID string, update ports.ActionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.applyUpdate(actionID, update)
	return err
}

func (s *Store) AppendStatus(_ context.Context, actionID string, update ports.ActionUpdate, entry entities.ActionStatusEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := s.applyUpdate(actionID, update)
	if err != nil {
		return err
	}
	s.entries[action.ActionID] = append(s.entries[action.ActionID], entry)
	return nil
}

func (s *Store) ListStatusEntries(_ context.Context, actionID string) ([]entities.ActionStatusEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.entries[strings.TrimSpace(actionID)]
	if !ok {
		if _, exists := s.actions[strings.TrimSpace(actionID)]; !exists {
			return nil, domainerrors.ErrActionNotFound
		}
		return []entities.ActionStatusEntry{}, nil
	}
	items := append([]entities.ActionStatusEntry(nil), entries...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.Before(items[j].OccurredAt)
	})
	return items, nil
}

func (s *Store) ActiveAction(_ context.Context, controllerID string) (entities.Action, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, action := range s.actions {
		if action.ControllerID == controllerID && action.Active {
			return action, true, nil
		}
	}
	return entities.Action{}, false, nil
}

func (s *Store) CountOpenActionsBySet(_ context.Context, setID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, action := range s.actions {
		if action.SetID == setID && !action.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListEscalatableActions(_ context.Context, now time.Time, limit int) ([]entities.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.Action, 0)
	for _, action := range s.actions {
		if action.Type != entities.ActionTypeTimeForced || action.ForceEscalated {
			continue
		}
		if action.Status.Terminal() || action.ForcedTime == nil {
			continue
		}
		if action.ForcedTime.After(now) {
			continue
		}
		items = append(items, action)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ActionID < items[j].ActionID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) GetTarget(_ context.Context, controllerID string) (ports.TargetView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.targets[strings.TrimSpace(controllerID)]
	if !ok {
		return ports.TargetView{}, domainerrors.ErrTargetUnknown
	}
	return ports.TargetView{
		ControllerID:  target.ControllerID,
		AssignedSetID: target.AssignedSetID,
	}, nil
}

func (s *Store) UpdatePointers(_ context.Context, controllerID string, pointers ports.TargetPointers) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(controllerID)
	target, ok := s.targets[id]
	if !ok {
		return domainerrors.ErrTargetUnknown
	}
	if pointers.SetAssigned {
		target.AssignedSetID = pointers.AssignedSetID
	}
	if pointers.SetInstalled {
		target.InstalledSetID = pointers.InstalledSetID
	}
	if pointers.SetActive {
		target.ActiveActionID = pointers.ActiveActionID
	}
	s.targets[id] = target
	return nil
}

// TargetState returns the registry record for assertions in tests.
func (s *Store) TargetState(controllerID string) (TargetState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.targets[controllerID]
	return target, ok
}

func (s *Store) SetExists(_ context.Context, setID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sets[strings.TrimSpace(setID)]
	return ok, nil
}

func (s *Store) EnqueueOutbox(_ context.Context, message ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, message)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, message := range s.outbox {
		if s.published[message.OutboxID] {
			continue
		}
		items = append(items, message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.published[outboxID] = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
