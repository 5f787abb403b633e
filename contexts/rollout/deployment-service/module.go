package deploymentservice

import (
	"context"
	"log/slog"

	httpadapter "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/adapters/http"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/adapters/memory"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application/workers"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/ports"
	"github.com/sergeysedoy97/hawkbit/internal/platform/keylock"
)

type Module struct {
	Handler   httpadapter.Handler
	Service   application.Service
	Relay     workers.OutboxRelay
	Escalator workers.ForcedTimeEscalator
	Store     *memory.Store
}

type Dependencies struct {
	Actions   ports.ActionRepository
	Targets   ports.TargetRegistry
	Sets      ports.SetCatalog
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Locks     ports.TargetLocker
	Guard     ports.SetGuard
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Actions: deps.Actions,
		Targets: deps.Targets,
		Sets:    deps.Sets,
		Outbox:  deps.Outbox,
		Locks:   deps.Locks,
		Guard:   deps.Guard,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		Escalator: workers.ForcedTimeEscalator{
			Actions: deps.Actions,
			Outbox:  deps.Outbox,
			Clock:   deps.Clock,
			IDGen:   deps.IDGen,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the rollout side against the in-memory store. The
// guard defaults to a private keyed lock when nil; production wiring passes
// the lock shared with the distribution service instead.
func NewInMemoryModule(
	seedTargets []string,
	seedSets []string,
	guard ports.SetGuard,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedTargets, seedSets)
	if guard == nil {
		guard = keylock.NewKeyedRWMutex()
	}
	if publisher == nil {
		publisher = dropPublisher{}
	}
	module := NewModule(Dependencies{
		Actions:   store,
		Targets:   store,
		Sets:      store,
		Outbox:    store,
		Publisher: publisher,
		Locks:     keylock.NewKeyedMutex(),
		Guard:     guard,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}

// dropPublisher discards events; outbox rows stay pending until a relay
// with a real publisher runs.
type dropPublisher struct{}

func (dropPublisher) Publish(context.Context, string, ports.ActionEvent) error {
	return nil
}
