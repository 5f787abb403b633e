package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"
)

type Service struct {
	Sets     ports.SetRepository
	Modules  ports.ModuleRepository
	Metadata ports.MetadataRepository
	Locks    ports.LockChecker
	Guard    ports.CompositionGuard
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

type CreateSetInput struct {
	Name                  string
	Version               string
	Type                  string
	Description           string
	RequiredMigrationStep bool
	ModuleIDs             []string
}

func (s Service) CreateDistributionSet(ctx context.Context, input CreateSetInput) (entities.DistributionSet, error) {
	name := strings.TrimSpace(input.Name)
	version := strings.TrimSpace(input.Version)
	if name == "" || version == "" {
		return entities.DistributionSet{}, domainerrors.ErrInvalidSet
	}

	// Same fail-fast batch semantics as module assignment: the whole create
	// is rejected the moment one module id does not resolve.
	moduleIDs, err := s.resolveModuleIDs(ctx, input.ModuleIDs)
	if err != nil {
		return entities.DistributionSet{}, err
	}

	setID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.DistributionSet{}, err
	}
	now := s.Clock.Now().UTC()
	set := entities.DistributionSet{
		SetID:                 setID,
		Name:                  name,
		Version:               version,
		Type:                  strings.TrimSpace(input.Type),
		Description:           strings.TrimSpace(input.Description),
		RequiredMigrationStep: input.RequiredMigrationStep,
		ModuleIDs:             moduleIDs,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.Sets.CreateSet(ctx, set); err != nil {
		return entities.DistributionSet{}, err
	}

	resolveLogger(s.Logger).Info("distribution set created",
		"event", "distribution_set_created",
		"module", "repository/distribution-service",
		"layer", "application",
		"set_id", setID,
		"name", name,
		"version", version,
	)
	return set, nil
}

func (s Service) GetDistributionSet(ctx context.Context, setID string) (entities.DistributionSet, error) {
	return s.Sets.GetSet(ctx, strings.TrimSpace(setID))
}

func (s Service) ListDistributionSets(ctx context.Context, filter ports.SetFilter) ([]entities.DistributionSet, error) {
	return s.Sets.ListSets(ctx, filter)
}

type UpdateSetInput struct {
	Name        *string
	Version     *string
	Description *string
}

func (s Service) UpdateDistributionSet(ctx context.Context, setID string, input UpdateSetInput) (entities.DistributionSet, error) {
	set, err := s.Sets.GetSet(ctx, strings.TrimSpace(setID))
	if err != nil {
		return entities.DistributionSet{}, err
	}

	if input.Name != nil {
		set.Name = strings.TrimSpace(*input.Name)
	}
	if input.Version != nil {
		set.Version = strings.TrimSpace(*input.Version)
	}
	if input.Description != nil {
		set.Description = strings.TrimSpace(*input.Description)
	}
	if set.Name == "" || set.Version == "" {
		return entities.DistributionSet{}, domainerrors.ErrInvalidSet
	}
	set.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Sets.UpdateSet(ctx, set); err != nil {
		return entities.DistributionSet{}, err
	}
	return set, nil
}

// DeleteDistributionSet removes a set that no in-flight action references.
// The composition guard keeps the lock check and the delete atomic against
// concurrent assignments.
func (s Service) DeleteDistributionSet(ctx context.Context, setID string) error {
	setID = strings.TrimSpace(setID)
	if _, err := s.Sets.GetSet(ctx, setID); err != nil {
		return err
	}

	s.Guard.Lock(setID)
	defer s.Guard.Unlock(setID)

	locked, err := s.Locks.IsLocked(ctx, setID)
	if err != nil {
		return err
	}
	if locked {
		return domainerrors.ErrDistributionSetLocked
	}
	return s.Sets.DeleteSet(ctx, setID)
}

type CreateModuleInput struct {
	Type        entities.ModuleType
	Name        string
	Version     string
	Vendor      string
	Description string
}

func (s Service) CreateSoftwareModule(ctx context.Context, input CreateModuleInput) (entities.SoftwareModule, error) {
	name := strings.TrimSpace(input.Name)
	version := strings.TrimSpace(input.Version)
	if name == "" || version == "" || !input.Type.Valid() {
		return entities.SoftwareModule{}, domainerrors.ErrInvalidModule
	}

	moduleID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.SoftwareModule{}, err
	}
	module := entities.SoftwareModule{
		ModuleID:    moduleID,
		Type:        input.Type,
		Name:        name,
		Version:     version,
		Vendor:      strings.TrimSpace(input.Vendor),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.Clock.Now().UTC(),
	}
	if err := s.Modules.CreateModule(ctx, module); err != nil {
		return entities.SoftwareModule{}, err
	}
	return module, nil
}

func (s Service) GetSoftwareModule(ctx context.Context, moduleID string) (entities.SoftwareModule, error) {
	return s.Modules.GetModule(ctx, strings.TrimSpace(moduleID))
}

func (s Service) ListSoftwareModules(ctx context.Context, filter ports.ModuleFilter) ([]entities.SoftwareModule, error) {
	return s.Modules.ListModules(ctx, filter)
}

// AssignSoftwareModules adds modules to a set's composition. The batch is
// fail-fast: every module id must resolve before anything is mutated, and
// the whole call is rejected while the set is locked by in-flight actions.
func (s Service) AssignSoftwareModules(ctx context.Context, setID string, moduleIDs []string) (entities.DistributionSet, error) {
	setID = strings.TrimSpace(setID)
	set, err := s.Sets.GetSet(ctx, setID)
	if err != nil {
		return entities.DistributionSet{}, err
	}

	resolved, err := s.resolveModuleIDs(ctx, moduleIDs)
	if err != nil {
		return entities.DistributionSet{}, err
	}
	if len(resolved) == 0 {
		return entities.DistributionSet{}, domainerrors.ErrInvalidModule
	}

	s.Guard.Lock(setID)
	defer s.Guard.Unlock(setID)

	locked, err := s.Locks.IsLocked(ctx, setID)
	if err != nil {
		return entities.DistributionSet{}, err
	}
	if locked {
		return entities.DistributionSet{}, domainerrors.ErrDistributionSetLocked
	}

	for _, moduleID := range resolved {
		if !set.HasModule(moduleID) {
			set.ModuleIDs = append(set.ModuleIDs, moduleID)
		}
	}
	set.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Sets.ReplaceModules(ctx, setID, set.ModuleIDs, set.UpdatedAt); err != nil {
		return entities.DistributionSet{}, err
	}

	resolveLogger(s.Logger).Info("software modules assigned",
		"event", "distribution_set_modules_assigned",
		"module", "repository/distribution-service",
		"layer", "application",
		"set_id", setID,
		"module_count", len(resolved),
	)
	return set, nil
}

func (s Service) UnassignSoftwareModule(ctx context.Context, setID string, moduleID string) (entities.DistributionSet, error) {
	setID = strings.TrimSpace(setID)
	moduleID = strings.TrimSpace(moduleID)

	set, err := s.Sets.GetSet(ctx, setID)
	if err != nil {
		return entities.DistributionSet{}, err
	}
	if _, err := s.Modules.GetModule(ctx, moduleID); err != nil {
		return entities.DistributionSet{}, err
	}
	if !set.HasModule(moduleID) {
		return entities.DistributionSet{}, domainerrors.ErrModuleNotAssigned
	}

	s.Guard.Lock(setID)
	defer s.Guard.Unlock(setID)

	locked, err := s.Locks.IsLocked(ctx, setID)
	if err != nil {
		return entities.DistributionSet{}, err
	}
	if locked {
		return entities.DistributionSet{}, domainerrors.ErrDistributionSetLocked
	}

	kept := make([]string, 0, len(set.ModuleIDs))
	for _, id := range set.ModuleIDs {
		if id != moduleID {
			kept = append(kept, id)
		}
	}
	set.ModuleIDs = kept
	set.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Sets.ReplaceModules(ctx, setID, set.ModuleIDs, set.UpdatedAt); err != nil {
		return entities.DistributionSet{}, err
	}
	return set, nil
}

func (s Service) resolveModuleIDs(ctx context.Context, moduleIDs []string) ([]string, error) {
	resolved := make([]string, 0, len(moduleIDs))
	seen := make(map[string]struct{}, len(moduleIDs))
	for _, moduleID := range moduleIDs {
		moduleID = strings.TrimSpace(moduleID)
		if moduleID == "" {
			return nil, domainerrors.ErrInvalidModule
		}
		if _, dup := seen[moduleID]; dup {
			continue
		}
		if _, err := s.Modules.GetModule(ctx, moduleID); err != nil {
			return nil, err
		}
		seen[moduleID] = struct{}{}
		resolved = append(resolved, moduleID)
	}
	return resolved, nil
}
