package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/ports"
)

type Store struct {
	mu      sync.RWMutex
	targets map[string]entities.Target
}

func NewStore(seed []entities.Target) *Store {
	store := &Store{targets: make(map[string]entities.Target)}
	for _, target := range seed {
		store.targets[target.ControllerID] = target
	}
	return store
}

func (s *Store) CreateTarget(_ context.Context, target entities.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(target.ControllerID)
	if id == "" {
		return domainerrors.ErrInvalidTarget
	}
	if _, exists := s.targets[id]; exists {
		return domainerrors.ErrTargetExists
	}
	s.targets[id] = target
	return nil
}

func (s *Store) UpdateTarget(_ context.Context, target entities.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(target.ControllerID)
	if _, exists := s.targets[id]; !exists {
		return domainerrors.ErrTargetNotFound
	}
	s.targets[id] = target
	return nil
}

func (s *Store) GetTarget(_ context.Context, controllerID string) (entities.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.targets[strings.TrimSpace(controllerID)]
	if !ok {
		return entities.Target{}, domainerrors.ErrTargetNotFound
	}
	return target, nil
}

func (s *Store) ListTargets(_ context.Context, filter ports.TargetFilter) ([]entities.Target, error) {
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

	items := make([]entities.Target, 0)
	for _, target := range s.targets {
		if filter.AssignedSetID != "" {
			if target.AssignedSetID == nil || *target.AssignedSetID != filter.AssignedSetID {
				continue
			}
		}
		if filter.InstalledSetID != "" {
			if target.InstalledSetID == nil || *target.InstalledSetID != filter.InstalledSetID {
				continue
			}
		}
		items = append(items, target)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ControllerID < items[j].ControllerID
	})

	if offset >= len(items) {
		return []entities.Target{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Target(nil), items[offset:end]...), nil
}

func (s *Store) DeleteTarget(_ context.Context, controllerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(controllerID)
	if _, exists := s.targets[id]; !exists {
		return domainerrors.ErrTargetNotFound
	}
	delete(s.targets, id)
	return nil
}

func (s *Store) UpdatePointers(_ context.Context, controllerID string, update ports.PointerUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(controllerID)
	target, ok := s.targets[id]
	if !ok {
		return domainerrors.ErrTargetNotFound
	}
	if update.SetAssigned {
		target.AssignedSetID = update.AssignedSetID
	}
	if update.SetInstalled {
		target.InstalledSetID = update.InstalledSetID
	}
	if update.SetActive {
		target.ActiveActionID = update.ActiveActionID
	}
	target.UpdatedAt = update.UpdatedAt
	s.targets[id] = target
	return nil
}

func (s *Store) TouchLastContact(_ context.Context, controllerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(controllerID)
	target, ok := s.targets[id]
	if !ok {
		return domainerrors.ErrTargetNotFound
	}
	target.LastContactAt = at
	s.targets[id] = target
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
