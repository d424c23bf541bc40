package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"CRM_ENV,          default=development"`
	JWTSecret string `env:"CRM_JWT_SECRET"`
	LogLevel  string `env:"CRM_LOG_LEVEL,    default=info"`

	// LogFile receives structured logs so they never interleave with the
	// interactive prompts on stdout.
	LogFile string `env:"CRM_LOG_FILE,     default=crm.log"`

	// SessionFile is where the signed session token lives between runs.
	SessionFile string `env:"CRM_SESSION_FILE, default=.crm-session"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"CRM_MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"CRM_MONGO_DB,  default=epic_events"`
}

// RedisConfig configures the login throttle backend. An empty Addr disables
// throttling entirely.
type RedisConfig struct {
	Addr string `env:"CRM_REDIS_ADDR"`
	DB   int    `env:"CRM_REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("CRM_JWT_SECRET must be set")
	}
	return &cfg, nil
}
