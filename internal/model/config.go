package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Source type identifiers accepted in SourceConfig.Type.
const (
	SourceTypePage  = "page"
	SourceTypeEmail = "email"
)

// SourceConfig holds the configuration for a single notification producer.
type SourceConfig struct {
	// ID is the unique identifier for this source instance. It also keys
	// the source's secret in the system keyring.
	ID string `mapstructure:"id" yaml:"id"`

	// Type identifies the producer kind ("page" or "email").
	Type string `mapstructure:"type" yaml:"type"`

	// Name is the user-defined label for this source instance.
	Name string `mapstructure:"name" yaml:"name"`

	// BaseURL is the notifications page for "page" sources and the
	// host:port of the IMAP server for "email" sources.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Enabled controls whether this source is fetched.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// PollIntervalSec is how often (in seconds) the TUI poller fetches.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// Config holds producer-specific settings
	// (e.g., login_url, username, mailbox, from).
	Config map[string]string `mapstructure:"config" yaml:"config"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`

	// File receives log lines while the terminal UI owns the screen.
	File string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds rendering and paging preferences.
type DisplayConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	PageSize        int    `mapstructure:"page_size" yaml:"page_size"`
	BatchSize       int    `mapstructure:"batch_size" yaml:"batch_size"`
	TruncateAt      int    `mapstructure:"truncate_at" yaml:"truncate_at"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database          DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Log               LogConfig        `mapstructure:"log" yaml:"log"`
	ImportanceLevels  ImportanceLevels `mapstructure:"importance_levels" yaml:"importance_levels"`
	DefaultCategories []string         `mapstructure:"default_categories" yaml:"default_categories"`
	Display           DisplayConfig    `mapstructure:"display" yaml:"display"`
	Sources           []SourceConfig   `mapstructure:"sources" yaml:"sources"`
}

// configDir returns ~/.config/notify, or the working directory when the
// home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "notify")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/notify/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDatabasePath returns ~/.config/notify/notify_this.db.
func DefaultDatabasePath() string {
	return filepath.Join(configDir(), "notify_this.db")
}

// DefaultLogPath returns ~/.config/notify/notify.log.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "notify.log")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		Display: DisplayConfig{
			Theme:           "default",
			PageSize:        10,
			BatchSize:       5,
			TruncateAt:      90,
			PollIntervalSec: 300,
		},
		Sources: []SourceConfig{},
	}
}

// newViper builds a Viper instance with defaults and NOTIFY_* environment
// overrides (e.g. NOTIFY_DATABASE_PATH, NOTIFY_LOG_LEVEL).
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NOTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := defaultAppConfig()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("display.page_size", d.Display.PageSize)
	v.SetDefault("display.batch_size", d.Display.BatchSize)
	v.SetDefault("display.truncate_at", d.Display.TruncateAt)
	v.SetDefault("display.poll_interval_sec", d.Display.PollIntervalSec)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults and environment overrides apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.ImportanceLevels) == 0 {
		cfg.ImportanceLevels = DefaultImportanceLevels()
	}
	if len(cfg.DefaultCategories) == 0 {
		cfg.DefaultCategories = append([]string(nil), DefaultCategories...)
	}
	if cfg.Display.PageSize <= 0 {
		cfg.Display.PageSize = 10
	}
	if cfg.Display.BatchSize <= 0 {
		cfg.Display.BatchSize = 5
	}

	// Apply defaults for each source entry.
	for i := range cfg.Sources {
		if cfg.Sources[i].PollIntervalSec == 0 {
			cfg.Sources[i].PollIntervalSec = cfg.Display.PollIntervalSec
		}
		if !cfg.Sources[i].Enabled {
			// Viper unmarshals missing bools as false; treat unset as true.
			key := fmt.Sprintf("sources.%d.enabled", i)
			if !v.IsSet(key) {
				cfg.Sources[i].Enabled = true
			}
		}
		if cfg.Sources[i].Config == nil {
			cfg.Sources[i].Config = map[string]string{}
		}
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("log", cfg.Log)
	v.Set("importance_levels", cfg.ImportanceLevels)
	v.Set("default_categories", cfg.DefaultCategories)
	v.Set("display", cfg.Display)
	v.Set("sources", cfg.Sources)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// FindSource returns the source with the given id.
func (c *AppConfig) FindSource(id string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return SourceConfig{}, false
}
