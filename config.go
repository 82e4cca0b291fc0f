package richtext

import "github.com/goliatone/go-richtext/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired         = runtimeconfig.ErrDefaultLocaleRequired
	ErrStorageBackendUnknown         = runtimeconfig.ErrStorageBackendUnknown
	ErrStorageDriverUnknown          = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired            = runtimeconfig.ErrStorageDSNRequired
	ErrStoragePathRequired           = runtimeconfig.ErrStoragePathRequired
	ErrCacheRequiresBun              = runtimeconfig.ErrCacheRequiresBun
	ErrCacheTTLInvalid               = runtimeconfig.ErrCacheTTLInvalid
	ErrMigrationWorkersInvalid       = runtimeconfig.ErrMigrationWorkersInvalid
	ErrCommandsCronRequiresMigration = runtimeconfig.ErrCommandsCronRequiresMigration
	ErrSummaryLengthInvalid          = runtimeconfig.ErrSummaryLengthInvalid
	ErrLoggingProviderRequired       = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown        = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid           = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid          = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ArticlesConfig  = runtimeconfig.ArticlesConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	LegacyConfig    = runtimeconfig.LegacyConfig
	MigrationConfig = runtimeconfig.MigrationConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
	Features        = runtimeconfig.Features
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads configuration from path, when given, layered over the
// defaults and RICHTEXT_* environment variables.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
