package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml
// beside the executable with environment overrides on top.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Ingest IngestConfig `toml:"ingest"`
}

// ServerConfig configures the browse API server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig locates the per-category database files.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// IngestConfig is the orchestrator policy for spreadsheet downloads.
type IngestConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	Workers        int    `toml:"workers"`
}

// DefaultConfig mirrors the historical supervisor settings: 120s per
// downloader, two retries, three in flight.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8410,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Ingest: IngestConfig{
			BaseURL:        "",
			TimeoutSeconds: 120,
			MaxRetries:     2,
			Workers:        3,
		},
	}
}

// GetExeDir returns the directory holding the executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads config.toml from the executable's directory, falling
// back to defaults when absent, then applies .env / environment overrides.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := os.ReadFile(filepath.Join(exeDir, "config.toml"))
	if err == nil {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(config)
	return config, nil
}

// applyEnv overlays environment variables, loading a .env file first when
// one is present in the working directory.
func applyEnv(config *AppConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("SOLARCAT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SOLARCAT_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("SOLARCAT_BASE_URL"); v != "" {
		config.Ingest.BaseURL = v
	}
}

// EnsureDataDir creates the data directory (relative paths resolve against
// the executable's directory) and returns its absolute path.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
