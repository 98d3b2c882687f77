package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig is a DTO for the environment overlay. Unset variables keep their
// zero value and leave the corresponding Config field untouched.
type envConfig struct {
	ServerBaseURL string        `env:"REVERIE_SERVER_URL"`
	DatabasePath  string        `env:"REVERIE_DB_PATH"`
	SyncInterval  time.Duration `env:"REVERIE_SYNC_INTERVAL"`
	LogLevel      string        `env:"REVERIE_LOG_LEVEL"`
}

func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envconfig.Process(context.Background(), &ec); err != nil {
		panic(err)
	}

	if ec.ServerBaseURL != "" {
		cfg.ServerBaseURL = ec.ServerBaseURL
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
	if ec.SyncInterval != 0 {
		cfg.SyncInterval = ec.SyncInterval
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
