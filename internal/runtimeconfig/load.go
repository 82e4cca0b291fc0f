package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. RICHTEXT_STORAGE_BACKEND.
const EnvPrefix = "RICHTEXT"

// Load reads configuration from path (YAML, JSON or TOML by extension) and
// RICHTEXT_* environment variables on top of DefaultConfig. An empty path
// skips the file. The result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("richtext config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("richtext config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("default_locale", cfg.DefaultLocale)
	v.SetDefault("articles.summary_length", cfg.Articles.SummaryLength)

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.path", cfg.Storage.Path)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.default_ttl", cfg.Cache.DefaultTTL)

	v.SetDefault("legacy.root", cfg.Legacy.Root)
	v.SetDefault("legacy.patterns", cfg.Legacy.Patterns)
	v.SetDefault("legacy.recursive", cfg.Legacy.Recursive)

	v.SetDefault("migration.workers", cfg.Migration.Workers)
	v.SetDefault("migration.cron", cfg.Migration.Cron)

	v.SetDefault("commands.enabled", cfg.Commands.Enabled)
	v.SetDefault("commands.auto_register_dispatcher", cfg.Commands.AutoRegisterDispatcher)
	v.SetDefault("commands.auto_register_cron", cfg.Commands.AutoRegisterCron)

	v.SetDefault("features.legacy_import", cfg.Features.LegacyImport)
	v.SetDefault("features.migration", cfg.Features.Migration)
	v.SetDefault("features.logger", cfg.Features.Logger)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
