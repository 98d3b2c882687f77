package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/reveriehq/reverie/internal/flagx"
	"github.com/reveriehq/reverie/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. timex.Duration
// lets the file specify intervals either as strings like "3m" or as integer
// nanoseconds.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	DatabasePath  string         `json:"database_path"`
	SyncInterval  timex.Duration `json:"sync_interval"`
	LogLevel      string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// No flag means no JSON layer. Read or parse errors panic: a config file that
// exists but cannot be used is a startup mistake, not something to limp past.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
