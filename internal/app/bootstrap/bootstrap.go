package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	artifactservice "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service"
	artifactfs "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/adapters/fs"
	artifactpostgres "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/adapters/postgres"
	distributionservice "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service"
	distributionpostgres "github.com/sergeysedoy97/hawkbit/contexts/repository/distribution-service/adapters/postgres"
	targetservice "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service"
	targetpostgres "github.com/sergeysedoy97/hawkbit/contexts/repository/target-service/adapters/postgres"
	deploymentservice "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service"
	deploymentpostgres "github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/adapters/postgres"
	"github.com/sergeysedoy97/hawkbit/contexts/rollout/deployment-service/application/workers"
	"github.com/sergeysedoy97/hawkbit/internal/platform/config"
	"github.com/sergeysedoy97/hawkbit/internal/platform/db"
	"github.com/sergeysedoy97/hawkbit/internal/platform/httpserver"
	"github.com/sergeysedoy97/hawkbit/internal/platform/keylock"
	"github.com/sergeysedoy97/hawkbit/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workers.OutboxRelay
	escalator    workers.ForcedTimeEscalator
	relayEnabled bool
	escalateOn   bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	// One composition lock per distribution set, shared between the two
	// contexts: writers on the repository side, readers on the rollout side.
	setGuard := keylock.NewKeyedRWMutex()

	targetRepo := targetpostgres.NewRepository(pg.DB, logger)
	targetModule := targetservice.NewModule(targetservice.Dependencies{
		Targets: targetRepo,
		Clock:   targetpostgres.SystemClock{},
		Logger:  logger,
	})

	actionRepo := deploymentpostgres.NewRepository(pg.DB, logger)
	deploymentModule := deploymentservice.NewModule(deploymentservice.Dependencies{
		Actions:   actionRepo,
		Targets:   deploymentpostgres.NewTargetRegistry(pg.DB),
		Sets:      deploymentpostgres.NewSetCatalog(pg.DB),
		Outbox:    deploymentpostgres.NewOutbox(pg.DB),
		Publisher: kafka,
		Locks:     keylock.NewKeyedMutex(),
		Guard:     setGuard,
		Clock:     deploymentpostgres.SystemClock{},
		IDGen:     deploymentpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	distributionRepo := distributionpostgres.NewRepository(pg.DB, logger)
	distributionModule := distributionservice.NewModule(distributionservice.Dependencies{
		Sets:     distributionRepo,
		Modules:  distributionRepo,
		Metadata: distributionRepo,
		Locks:    deploymentModule.Service,
		Guard:    setGuard,
		Clock:    distributionpostgres.SystemClock{},
		IDGen:    distributionpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	blobs, err := artifactfs.NewBlobStore(cfg.ArtifactRoot)
	if err != nil {
		return nil, err
	}
	artifactRepo := artifactpostgres.NewRepository(pg.DB, logger)
	artifactModule := artifactservice.NewModule(artifactservice.Dependencies{
		Artifacts: artifactRepo,
		Blobs:     blobs,
		Modules:   artifactpostgres.NewModuleCatalog(pg.DB),
		Clock:     artifactpostgres.SystemClock{},
		IDGen:     artifactpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(
		distributionModule,
		targetModule,
		deploymentModule,
		artifactModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	actionRepo := deploymentpostgres.NewRepository(pg.DB, logger)
	outbox := deploymentpostgres.NewOutbox(pg.DB)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workers.OutboxRelay{
			Outbox:    outbox,
			Publisher: kafka,
			Clock:     deploymentpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		escalator: workers.ForcedTimeEscalator{
			Actions:   actionRepo,
			Outbox:    outbox,
			Clock:     deploymentpostgres.SystemClock{},
			IDGen:     deploymentpostgres.UUIDGenerator{},
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		escalateOn:   cfg.EnableForcedTimeEscalate,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay", w.relayEnabled,
		"forced_time_escalator", w.escalateOn,
	)

	for {
		if w.escalateOn {
			if err := w.escalator.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
