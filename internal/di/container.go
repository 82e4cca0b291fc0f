package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/legacy"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/logging/console"
	"github.com/goliatone/go-richtext/internal/logging/gologger"
	"github.com/goliatone/go-richtext/internal/markup"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// Container wires the richtext services from a runtimeconfig.Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	articleRepo articles.Repository
	normalizer  interfaces.Normalizer
	legacyFS    fs.FS

	articleSvc articles.Service
	migrator   *articles.Migrator
	importer   *legacy.Importer

	closers []func() error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database for the bun backend. The container does
// not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithArticleRepository bypasses storage configuration.
func WithArticleRepository(repo articles.Repository) Option {
	return func(c *Container) {
		c.articleRepo = repo
	}
}

// WithNormalizer swaps the markup pipeline used by the article service.
func WithNormalizer(normalizer interfaces.Normalizer) Option {
	return func(c *Container) {
		c.normalizer = normalizer
	}
}

// WithLegacyFS overrides the filesystem legacy imports read from. Defaults
// to os.DirFS(Config.Legacy.Root).
func WithLegacyFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.legacyFS = fsys
	}
}

// NewContainer validates cfg and builds every service. Call Close to release
// storage handles the container opened.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(context.Background()); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureServices()

	logging.ModuleLogger(c.loggerProvider, "richtext").Debug("container.configured",
		"storage", normalized(cfg.Storage.Backend),
		"cache", c.cacheService != nil,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch normalized(logCfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, err := console.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: level})
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.articleRepo != nil {
		return nil
	}

	storage := c.Config.Storage
	switch normalized(storage.Backend) {
	case runtimeconfig.BackendBun:
		if c.bunDB == nil {
			db, err := openBunDB(storage.Driver, storage.DSN)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.closers = append(c.closers, db.Close)
		}
		if err := articles.EnsureSchema(ctx, c.bunDB); err != nil {
			return err
		}
		c.configureCacheDefaults()
		c.articleRepo = articles.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	case runtimeconfig.BackendBolt:
		repo, err := articles.OpenBoltRepository(storage.Path)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, repo.Close)
		c.articleRepo = repo
	default:
		c.articleRepo = articles.NewMemoryRepository()
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureServices() {
	if c.normalizer == nil {
		c.normalizer = markup.Pipeline{}
	}

	c.articleSvc = articles.NewService(c.articleRepo,
		articles.WithNormalizer(c.normalizer),
		articles.WithLogger(logging.ArticlesLogger(c.loggerProvider)),
		articles.WithDefaultLocale(c.Config.DefaultLocale),
		articles.WithSummaryLength(c.Config.Articles.SummaryLength),
	)
	c.migrator = articles.NewMigrator(c.articleSvc,
		articles.WithMigratorLogger(logging.ArticlesLogger(c.loggerProvider)),
	)

	if c.legacyFS == nil {
		root := strings.TrimSpace(c.Config.Legacy.Root)
		if root == "" {
			root = "."
		}
		c.legacyFS = os.DirFS(root)
	}
	c.importer = legacy.NewImporter(c.legacyFS, c.articleSvc, legacy.LoaderConfig{
		Patterns:  c.Config.Legacy.Patterns,
		Recursive: c.Config.Legacy.Recursive,
	}, legacy.WithImporterLogger(logging.LegacyLogger(c.loggerProvider)))
}

// LoggerProvider returns the configured provider, or nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the database backing the bun store, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// ArticleRepository returns the configured article store.
func (c *Container) ArticleRepository() articles.Repository {
	return c.articleRepo
}

// ArticleService returns the article service.
func (c *Container) ArticleService() articles.Service {
	return c.articleSvc
}

// Migrator returns the bulk normalizer.
func (c *Container) Migrator() *articles.Migrator {
	return c.migrator
}

// Importer returns the legacy directory importer.
func (c *Container) Importer() *legacy.Importer {
	return c.importer
}

// Close releases storage handles opened by the container.
func (c *Container) Close() error {
	var errs error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = errors.Join(errs, c.closers[i]())
	}
	c.closers = nil
	return errs
}

func openBunDB(driver, dsn string) (*bun.DB, error) {
	switch normalized(driver) {
	case runtimeconfig.DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	}
}

func normalized(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
