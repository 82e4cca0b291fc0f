package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDefaultLocaleRequired = errors.New("richtext config: default locale is required")
var ErrStorageBackendUnknown = errors.New("richtext config: storage backend is invalid")
var ErrStorageDriverUnknown = errors.New("richtext config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("richtext config: storage dsn is required for the bun backend")
var ErrStoragePathRequired = errors.New("richtext config: storage path is required for the bolt backend")
var ErrCacheRequiresBun = errors.New("richtext config: repository cache is only available with the bun backend")
var ErrCacheTTLInvalid = errors.New("richtext config: cache ttl must be positive")
var ErrMigrationWorkersInvalid = errors.New("richtext config: migration workers must be between 0 and 16")
var ErrCommandsCronRequiresMigration = errors.New("richtext config: command cron auto-registration requires the migration feature")
var ErrSummaryLengthInvalid = errors.New("richtext config: summary length must be zero or positive")
var ErrLoggingProviderRequired = errors.New("richtext config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("richtext config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("richtext config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("richtext config: logging format is invalid")

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBun    = "bun"
	BackendBolt   = "bolt"
)

// SQL drivers for the bun backend.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const maxMigrationWorkers = 16

// Config aggregates storage, logging and feature settings for the richtext
// module.
type Config struct {
	DefaultLocale string          `mapstructure:"default_locale"`
	Articles      ArticlesConfig  `mapstructure:"articles"`
	Storage       StorageConfig   `mapstructure:"storage"`
	Cache         CacheConfig     `mapstructure:"cache"`
	Legacy        LegacyConfig    `mapstructure:"legacy"`
	Migration     MigrationConfig `mapstructure:"migration"`
	Commands      CommandsConfig  `mapstructure:"commands"`
	Features      Features        `mapstructure:"features"`
	Logging       LoggingConfig   `mapstructure:"logging"`
}

// ArticlesConfig tunes the article service.
type ArticlesConfig struct {
	// SummaryLength caps derived summaries in runes. Zero disables them.
	SummaryLength int `mapstructure:"summary_length"`
}

// StorageConfig selects and configures the article store.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	// Driver and DSN apply to the bun backend.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Path is the bolt database file.
	Path string `mapstructure:"path"`
}

// CacheConfig controls the read-through cache in front of the bun store.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// LegacyConfig controls discovery of legacy export files.
type LegacyConfig struct {
	// Root is the directory import paths are resolved against.
	Root      string   `mapstructure:"root"`
	Patterns  []string `mapstructure:"patterns"`
	Recursive bool     `mapstructure:"recursive"`
}

// MigrationConfig tunes bulk normalization.
type MigrationConfig struct {
	Workers int    `mapstructure:"workers"`
	Cron    string `mapstructure:"cron"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	AutoRegisterDispatcher bool `mapstructure:"auto_register_dispatcher"`
	AutoRegisterCron       bool `mapstructure:"auto_register_cron"`
}

// Features toggles module functionality.
type Features struct {
	LegacyImport bool `mapstructure:"legacy_import"`
	Migration    bool `mapstructure:"migration"`
	Logger       bool `mapstructure:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns in-memory storage with every feature enabled.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Articles: ArticlesConfig{
			SummaryLength: 160,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Driver:  DriverSQLite,
			Path:    "richtext.db",
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Legacy: LegacyConfig{
			Root:      ".",
			Patterns:  []string{"*.txt", "*.md"},
			Recursive: true,
		},
		Migration: MigrationConfig{
			Cron: "@hourly",
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
		Features: Features{
			LegacyImport: true,
			Migration:    true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if cfg.Articles.SummaryLength < 0 {
		return ErrSummaryLengthInvalid
	}

	backend := normalizeName(cfg.Storage.Backend)
	switch backend {
	case BackendMemory:
	case BackendBun:
		switch normalizeName(cfg.Storage.Driver) {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case BackendBolt:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			return ErrStoragePathRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageBackendUnknown, cfg.Storage.Backend)
	}

	if cfg.Cache.Enabled {
		if backend != BackendBun {
			return ErrCacheRequiresBun
		}
		if cfg.Cache.DefaultTTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}

	if cfg.Migration.Workers < 0 || cfg.Migration.Workers > maxMigrationWorkers {
		return fmt.Errorf("%w: %d", ErrMigrationWorkersInvalid, cfg.Migration.Workers)
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Migration {
		return ErrCommandsCronRequiresMigration
	}

	if cfg.Features.Logger {
		provider := normalizeName(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalizeName(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalizeName(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
