package ports

import (
	"context"
	"time"

	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
)

type TargetFilter struct {
	// AssignedSetID / InstalledSetID narrow the listing to targets whose
	// pointer equals the given set. Empty means no filter.
	AssignedSetID  string
	InstalledSetID string
	Limit          int
	Offset         int
}

// PointerUpdate mutates the rollout pointers of one target. Each pointer is
// only touched when its Set flag is true, so callers state exactly which
// fields they own in this update.
type PointerUpdate struct {
	AssignedSetID  *string
	SetAssigned    bool
	InstalledSetID *string
	SetInstalled   bool
	ActiveActionID *string
	SetActive      bool
	UpdatedAt      time.Time
}

type TargetRepository interface {
	CreateTarget(ctx context.Context, target entities.Target) error
	UpdateTarget(ctx context.Context, target entities.Target) error
	GetTarget(ctx context.Context, controllerID string) (entities.Target, error)
	ListTargets(ctx context.Context, filter TargetFilter) ([]entities.Target, error)
	DeleteTarget(ctx context.Context, controllerID string) error
	UpdatePointers(ctx context.Context, controllerID string, update PointerUpdate) error
	TouchLastContact(ctx context.Context, controllerID string, at time.Time) error
}

type Clock interface {
	Now() time.Time
}
