package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.Equal(t, "http://127.0.0.1:5000", cfg.ServerBaseURL)
	require.Empty(t, cfg.DatabasePath)
	require.Equal(t, 3*time.Minute, cfg.SyncInterval)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("REVERIE_SERVER_URL", "http://example.test:9000")
	t.Setenv("REVERIE_SYNC_INTERVAL", "45s")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	require.Equal(t, "http://example.test:9000", cfg.ServerBaseURL)
	require.Equal(t, 45*time.Second, cfg.SyncInterval)
	// untouched fields keep their defaults
	require.Equal(t, "info", cfg.LogLevel)
}

func TestJsonConfig_Unmarshal(t *testing.T) {
	raw := `{"server_base_url":"http://json.test","sync_interval":"90s","log_level":"debug"}`

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &jc))
	require.Equal(t, "http://json.test", jc.ServerBaseURL)
	require.Equal(t, 90*time.Second, jc.SyncInterval.Duration)
	require.Equal(t, "debug", jc.LogLevel)
}

func TestParseJson_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path":"/tmp/reverie-test.db"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"reverie", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	require.Equal(t, "/tmp/reverie-test.db", cfg.DatabasePath)
	// fields absent from the file keep their defaults
	require.Equal(t, "http://127.0.0.1:5000", cfg.ServerBaseURL)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"reverie", "-a", "http://flags.test", "-i", "30"}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	require.Equal(t, "http://flags.test", cfg.ServerBaseURL)
	require.Equal(t, 30*time.Second, cfg.SyncInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("REVERIE_SERVER_URL", "http://env.test")

	oldArgs := os.Args
	os.Args = []string{"reverie", "-a", "http://flags-win.test"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := LoadConfig()
	require.Equal(t, "http://flags-win.test", cfg.ServerBaseURL)
}
