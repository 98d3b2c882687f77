package config

import "time"

// Config holds runtime settings for the Reverie CLI.
type Config struct {
	// ServerBaseURL is the base URL of the Reverie REST backend.
	ServerBaseURL string

	// DatabasePath is the sqlite file holding the local cache. Empty means
	// the default location under the user config dir.
	DatabasePath string

	// SyncInterval is how often the background worker reconciles the local
	// collection and resubmits pending mutations.
	SyncInterval time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:5000"
	c.DatabasePath = ""
	c.SyncInterval = 3 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig constructs a Config by layering sources, later ones taking
// precedence: defaults, environment, JSON file (-c/-config), command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
