package distributionservice

import (
	"context"
	"log/slog"

	httpadapter "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/adapters/http"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/adapters/memory"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/ports"
	"github.com/sergeysedoy97/hawkbit/internal/platform/keylock"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Sets     ports.SetRepository
	Modules  ports.ModuleRepository
	Metadata ports.MetadataRepository
	Locks    ports.LockChecker
	Guard    ports.CompositionGuard
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Sets:     deps.Sets,
		Modules:  deps.Modules,
		Metadata: deps.Metadata,
		Locks:    deps.Locks,
		Guard:    deps.Guard,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule wires the catalog against the in-memory store. The lock
// checker defaults to "never locked" when nil, which suits tests that do not
// involve the rollout side.
func NewInMemoryModule(
	seedSets []entities.DistributionSet,
	seedModules []entities.SoftwareModule,
	locks ports.LockChecker,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedSets, seedModules)
	if locks == nil {
		locks = neverLocked{}
	}
	module := NewModule(Dependencies{
		Sets:     store,
		Modules:  store,
		Metadata: store,
		Locks:    locks,
		Guard:    keylock.NewKeyedRWMutex(),
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}

type neverLocked struct{}

func (neverLocked) IsLocked(context.Context, string) (bool, error) {
	return false, nil
}
