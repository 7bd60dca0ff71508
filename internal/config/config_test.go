package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Server.Port != 8410 {
		t.Errorf("port = %d, want 8410", cfg.Server.Port)
	}
	if cfg.Ingest.TimeoutSeconds != 120 || cfg.Ingest.MaxRetries != 2 || cfg.Ingest.Workers != 3 {
		t.Errorf("ingest defaults = %+v", cfg.Ingest)
	}
}

func TestConfigUnmarshal(t *testing.T) {
	t.Parallel()

	raw := `
[server]
port = 9000
dev_mode = true

[data]
data_dir = "/var/lib/solarcatalog"

[ingest]
timeout_seconds = 30
workers = 1
`
	cfg := DefaultConfig()
	if err := toml.Unmarshal([]byte(raw), cfg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Server.Port != 9000 || !cfg.Server.DevMode {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Data.DataDir != "/var/lib/solarcatalog" {
		t.Errorf("data dir = %q", cfg.Data.DataDir)
	}
	if cfg.Ingest.TimeoutSeconds != 30 || cfg.Ingest.Workers != 1 {
		t.Errorf("ingest = %+v", cfg.Ingest)
	}
	// Unset keys keep their defaults.
	if cfg.Ingest.MaxRetries != 2 {
		t.Errorf("max retries = %d, want default 2", cfg.Ingest.MaxRetries)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SOLARCAT_PORT", "9411")
	t.Setenv("SOLARCAT_DATA_DIR", "/tmp/solarcat")
	t.Setenv("SOLARCAT_BASE_URL", "http://localhost:9999/download")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Server.Port != 9411 {
		t.Errorf("port = %d, want 9411", cfg.Server.Port)
	}
	if cfg.Data.DataDir != "/tmp/solarcat" {
		t.Errorf("data dir = %q", cfg.Data.DataDir)
	}
	if cfg.Ingest.BaseURL != "http://localhost:9999/download" {
		t.Errorf("base url = %q", cfg.Ingest.BaseURL)
	}
}

func TestEnvOverridesIgnoreJunkPort(t *testing.T) {
	t.Setenv("SOLARCAT_PORT", "not-a-port")

	cfg := DefaultConfig()
	applyEnv(cfg)
	if cfg.Server.Port != 8410 {
		t.Errorf("port = %d, want default 8410", cfg.Server.Port)
	}
}
