package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	sets     map[string]entities.DistributionSet
	modules  map[string]entities.SoftwareModule
	metadata map[entities.MetadataKey]entities.SetMetadata
}

func NewStore(seedSets []entities.DistributionSet, seedModules []entities.SoftwareModule) *Store {
	store := &Store{
		sets:     make(map[string]entities.DistributionSet),
		modules:  make(map[string]entities.SoftwareModule),
		metadata: make(map[entities.MetadataKey]entities.SetMetadata),
	}
	for _, set := range seedSets {
		store.sets[set.SetID] = set
	}
	for _, module := range seedModules {
		store.modules[module.ModuleID] = module
	}
	return store
}

func (s *Store) CreateSet(_ context.Context, set entities.DistributionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(set.SetID)
	if id == "" {
		return domainerrors.ErrInvalidSet
	}
	if _, exists := s.sets[id]; exists {
		return domainerrors.ErrInvalidSet
	}
	s.sets[id] = set
	return nil
}

func (s *Store) UpdateSet(_ context.Context, set entities.DistributionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(set.SetID)
	if _, exists := s.sets[id]; !exists {
		return domainerrors.ErrDistributionSetNotFound
	}
	s.sets[id] = set
	return nil
}

func (s *Store) GetSet(_ context.Context, setID string) (entities.DistributionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[strings.TrimSpace(setID)]
	if !ok {
		return entities.DistributionSet{}, domainerrors.ErrDistributionSetNotFound
	}
	return set, nil
}

func (s *Store) ListSets(_ context.Context, filter ports.SetFilter) ([]entities.DistributionSet, error) {
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

	items := make([]entities.DistributionSet, 0)
	for _, set := range s.sets {
		if filter.Type != "" && set.Type != filter.Type {
			continue
		}
		items = append(items, set)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].Version < items[j].Version
		}
		return items[i].Name < items[j].Name
	})

	if offset >= len(items) {
		return []entities.DistributionSet{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.DistributionSet(nil), items[offset:end]...), nil
}

func (s *Store) DeleteSet(_ context.Context, setID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(setID)
	if _, exists := s.sets[id]; !exists {
		return domainerrors.ErrDistributionSetNotFound
	}
	delete(s.sets, id)
	for key := range s.metadata {
		if key.SetID == id {
			delete(s.metadata, key)
		}
	}
	return nil
}

func (s *Store) ReplaceModules(_ context.Context, setID string, moduleIDs []string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(setID)
	set, ok := s.sets[id]
	if !ok {
		return domainerrors.ErrDistributionSetNotFound
	}
	set.ModuleIDs = append([]string(nil), moduleIDs...)
	set.UpdatedAt = updatedAt
	s.sets[id] = set
	return nil
}

func (s *Store) CreateModule(_ context.Context, module entities.SoftwareModule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(module.ModuleID)
	if id == "" {
		return domainerrors.ErrInvalidModule
	}
	if _, exists := s.modules[id]; exists {
		return domainerrors.ErrInvalidModule
	}
	s.modules[id] = module
	return nil
}

func (s *Store) GetModule(_ context.Context, moduleID string) (entities.SoftwareModule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	module, ok := s.modules[strings.TrimSpace(moduleID)]
	if !ok {
		return entities.SoftwareModule{}, domainerrors.ErrSoftwareModuleNotFound
	}
	return module, nil
}

func (s *Store) ListModules(_ context.Context, filter ports.ModuleFilter) ([]entities.SoftwareModule, error) {
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

	items := make([]entities.SoftwareModule, 0)
	for _, module := range s.modules {
		if filter.Type != "" && module.Type != filter.Type {
			continue
		}
		items = append(items, module)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].Version < items[j].Version
		}
		return items[i].Name < items[j].Name
	})

	if offset >= len(items) {
		return []entities.SoftwareModule{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.SoftwareModule(nil), items[offset:end]...), nil
}

func (s *Store) CreateMetadata(_ context.Context, item entities.SetMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.metadata[item.Key]; exists {
		return domainerrors.ErrMetadataKeyExists
	}
	s.metadata[item.Key] = item
	return nil
}

func (s *Store) GetMetadata(_ context.Context, key entities.MetadataKey) (entities.SetMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.metadata[key]
	if !ok {
		return entities.SetMetadata{}, domainerrors.ErrMetadataNotFound
	}
	return item, nil
}

func (s *Store) ListMetadata(_ context.Context, setID string) ([]entities.SetMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.SetMetadata, 0)
	for key, item := range s.metadata {
		if key.SetID == strings.TrimSpace(setID) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Key.Key < items[j].Key.Key
	})
	return items, nil
}

func (s *Store) UpdateMetadata(_ context.Context, item entities.SetMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.metadata[item.Key]; !exists {
		return domainerrors.ErrMetadataNotFound
	}
	s.metadata[item.Key] = item
	return nil
}

func (s *Store) DeleteMetadata(_ context.Context, key entities.MetadataKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.metadata[key]; !exists {
		return domainerrors.ErrMetadataNotFound
	}
	delete(s.metadata, key)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
