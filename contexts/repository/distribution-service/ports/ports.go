package ports

import (
	"context"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
)

type SetFilter struct {
	Type   string
	Limit  int
	Offset int
}

type SetRepository interface {
	CreateSet(ctx context.Context, set entities.DistributionSet) error
	UpdateSet(ctx context.Context, set entities.DistributionSet) error
	GetSet(ctx context.Context, setID string) (entities.DistributionSet, error)
	ListSets(ctx context.Context, filter SetFilter) ([]entities.DistributionSet, error)
	DeleteSet(ctx context.Context, setID string) error
	ReplaceModules(ctx context.Context, setID string, moduleIDs []string, updatedAt time.Time) error
}

type ModuleFilter struct {
	Type   entities.ModuleType
	Limit  int
	Offset int
}

type ModuleRepository interface {
	CreateModule(ctx context.Context, module entities.SoftwareModule) error
	GetModule(ctx context.Context, moduleID string) (entities.SoftwareModule, error)
	ListModules(ctx context.Context, filter ModuleFilter) ([]entities.SoftwareModule, error)
}

type MetadataRepository interface {
	CreateMetadata(ctx context.Context, item entities.SetMetadata) error
	GetMetadata(ctx context.Context, key entities.MetadataKey) (entities.SetMetadata, error)
	ListMetadata(ctx context.Context, setID string) ([]entities.SetMetadata, error)
	UpdateMetadata(ctx context.Context, item entities.SetMetadata) error
	DeleteMetadata(ctx context.Context, key entities.MetadataKey) error
}

// LockChecker reports whether a distribution set is referenced by at least
// one non-terminal action. Implemented by the rollout side's action store.
type LockChecker interface {
	IsLocked(ctx context.Context, setID string) (bool, error)
}

// CompositionGuard serializes composition mutations of one set against
// concurrent action creation referencing the same set. The rollout side
// holds the shared half of the same lock while it creates actions.
type CompositionGuard interface {
	Lock(setID string)
	Unlock(setID string)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
