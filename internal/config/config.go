package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// defaultAPIURL points at a local gateway in development. Overridden by
// FOTOFINDR_API_URL or the config file.
const defaultAPIURL = "http://localhost:8787/api"

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Library LibraryConfig `mapstructure:"library"`
	Index   IndexConfig   `mapstructure:"index"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BackendConfig holds AI backend configuration
type BackendConfig struct {
	URL    string `mapstructure:"url"`     // base URL of the backend (or gateway)
	UserID string `mapstructure:"user_id"` // demo user identifier, generated on first run
}

// LibraryConfig holds photo library configuration
type LibraryConfig struct {
	Path string `mapstructure:"path"` // directory scanned for photos
}

// IndexConfig holds indexing run tuning
type IndexConfig struct {
	Limit             int `mapstructure:"limit"`               // newest assets selected per run
	BatchSize         int `mapstructure:"batch_size"`          // concurrent uploads per batch
	UploadTimeoutSec  int `mapstructure:"upload_timeout_sec"`  // per-asset upload deadline
	ResolveTimeoutSec int `mapstructure:"resolve_timeout_sec"` // asset file resolution deadline
	PollIntervalSec   int `mapstructure:"poll_interval_sec"`   // status poll cadence
	PollDeadlineSec   int `mapstructure:"poll_deadline_sec"`   // give up waiting after this
}

// UIConfig holds UI configuration
type UIConfig struct {
	SearchLimit int `mapstructure:"search_limit"` // max results per search
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL: defaultAPIURL,
		},
		Library: LibraryConfig{
			Path: defaultLibraryPath(),
		},
		Index: IndexConfig{
			Limit:             30,
			BatchSize:         3,
			UploadTimeoutSec:  8,
			ResolveTimeoutSec: 3,
			PollIntervalSec:   3,
			PollDeadlineSec:   120,
		},
		UI: UIConfig{
			SearchLimit: 20,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLibraryPath returns the user's pictures directory
func defaultLibraryPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Pictures")
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "fotofindr", "fotofindr.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "fotofindr", "fotofindr.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "fotofindr")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "fotofindr")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "fotofindr", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "fotofindr", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides: FOTOFINDR_API_URL wins over the
	// config file, the config file over the hardcoded default.
	viper.SetEnvPrefix("FOTOFINDR")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv("FOTOFINDR_API_URL")); v != "" {
		cfg.Backend.URL = v
	}

	// A fixed demo user stands in for real authentication. Generate one
	// on first run and persist it so uploads stay attributed across runs.
	if cfg.Backend.UserID == "" {
		cfg.Backend.UserID = uuid.NewString()
		if err := SaveConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to persist generated user id: %w", err)
		}
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("backend.url", cfg.Backend.URL)
	viper.Set("backend.user_id", cfg.Backend.UserID)

	viper.Set("library.path", cfg.Library.Path)

	viper.Set("index.limit", cfg.Index.Limit)
	viper.Set("index.batch_size", cfg.Index.BatchSize)
	viper.Set("index.upload_timeout_sec", cfg.Index.UploadTimeoutSec)
	viper.Set("index.resolve_timeout_sec", cfg.Index.ResolveTimeoutSec)
	viper.Set("index.poll_interval_sec", cfg.Index.PollIntervalSec)
	viper.Set("index.poll_deadline_sec", cfg.Index.PollDeadlineSec)

	viper.Set("ui.search_limit", cfg.UI.SearchLimit)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the backend URL and library path are set
func (c *Config) IsConfigured() bool {
	return c.Backend.URL != "" && c.Library.Path != ""
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}

// ClearCache removes all cached data
func ClearCache() error {
	cachePath := defaultCachePath()
	if err := os.RemoveAll(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
