package artifactservice

import (
	"log/slog"

	httpadapter "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/adapters/http"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/adapters/memory"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/application"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Artifacts ports.ArtifactRepository
	Blobs     ports.BlobStore
	Modules   ports.ModuleCatalog
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Artifacts: deps.Artifacts,
		Blobs:     deps.Blobs,
		Modules:   deps.Modules,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule keeps blobs and metadata in process memory.
func NewInMemoryModule(seedModules []string, logger *slog.Logger) Module {
	store := memory.NewStore(seedModules)
	module := NewModule(Dependencies{
		Artifacts: store,
		Blobs:     store,
		Modules:   store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
