package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `env:"SERVICE_NAME" envDefault:"hawkbit"`
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN  string   `env:"POSTGRES_DSN"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	// ArtifactRoot is the base directory of the content-addressed blob store.
	ArtifactRoot string `env:"ARTIFACT_ROOT" envDefault:"/var/lib/hawkbit/artifacts"`

	EnableOutboxRelay        bool `env:"ENABLE_OUTBOX_RELAY" envDefault:"true"`
	EnableForcedTimeEscalate bool `env:"ENABLE_FORCED_TIME_ESCALATE" envDefault:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
