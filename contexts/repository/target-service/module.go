package targetservice

import (
	"log/slog"

	httpadapter "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/adapters/http"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/adapters/memory"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/domain/entities"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Targets ports.TargetRepository
	Clock   ports.Clock
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Targets: deps.Targets,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.Target, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Targets: store,
		Clock:   store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
