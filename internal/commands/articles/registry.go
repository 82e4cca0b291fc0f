package articlescmd

import (
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/commands"
	"github.com/goliatone/go-richtext/internal/legacy"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// Services are the collaborators the handlers drive. Importer may be nil, in
// which case no import handler is built.
type Services struct {
	Articles ArticleNormalizer
	Migrator MigrationRunner
	Importer DirectoryImporter
}

// HandlerSet groups the handlers built by RegisterArticleCommands.
type HandlerSet struct {
	Normalize *NormalizeArticleHandler
	Migrate   *MigrateArticlesHandler
	Import    *ImportLegacyHandler
}

// All returns the non-nil handlers in registration order.
func (s *HandlerSet) All() []any {
	if s == nil {
		return nil
	}
	out := []any{s.Normalize, s.Migrate}
	if s.Import != nil {
		out = append(out, s.Import)
	}
	return out
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	normalizeOpts      []commands.HandlerOption[NormalizeArticleCommand]
	migrateOpts        []commands.HandlerOption[MigrateArticlesCommand]
	importOpts         []commands.HandlerOption[ImportLegacyCommand]
	onNormalized       func(*articles.Article)
	onMigrated         func(*articles.MigrationResult)
	onImported         func(*legacy.ImportResult)
	migrationCron      string
	migrationCronMsg   MigrateArticlesCommand
	migrationCronIsSet bool
}

// WithNormalizeHandlerOptions forwards options to the normalize handler.
func WithNormalizeHandlerOptions(opts ...commands.HandlerOption[NormalizeArticleCommand]) Option {
	return func(cfg *options) {
		cfg.normalizeOpts = append(cfg.normalizeOpts, opts...)
	}
}

// WithMigrateHandlerOptions forwards options to the migrate handler.
func WithMigrateHandlerOptions(opts ...commands.HandlerOption[MigrateArticlesCommand]) Option {
	return func(cfg *options) {
		cfg.migrateOpts = append(cfg.migrateOpts, opts...)
	}
}

// WithImportHandlerOptions forwards options to the import handler.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportLegacyCommand]) Option {
	return func(cfg *options) {
		cfg.importOpts = append(cfg.importOpts, opts...)
	}
}

// WithNormalizedObserver receives every article stored by the normalize handler.
func WithNormalizedObserver(fn func(*articles.Article)) Option {
	return func(cfg *options) {
		cfg.onNormalized = fn
	}
}

// WithMigrationObserver receives every migration result.
func WithMigrationObserver(fn func(*articles.MigrationResult)) Option {
	return func(cfg *options) {
		cfg.onMigrated = fn
	}
}

// WithImportObserver receives every import result.
func WithImportObserver(fn func(*legacy.ImportResult)) Option {
	return func(cfg *options) {
		cfg.onImported = fn
	}
}

// WithMigrationCron schedules msg on expression when the handler set is
// registered with a cron registrar.
func WithMigrationCron(expression string, msg MigrateArticlesCommand) Option {
	return func(cfg *options) {
		cfg.migrationCron = expression
		cfg.migrationCronMsg = msg
		cfg.migrationCronIsSet = true
	}
}

// RegisterArticleCommands builds the article command handlers and registers
// them with reg when it is not nil.
func RegisterArticleCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if services.Articles == nil {
		return nil, errors.New("articles command registration: article service is nil")
	}
	if services.Migrator == nil {
		return nil, errors.New("articles command registration: migrator is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	articlesLogger := commands.CommandLogger(provider, "articles")
	set := &HandlerSet{
		Normalize: NewNormalizeArticleHandler(services.Articles, articlesLogger, cfg.onNormalized, cfg.normalizeOpts...),
		Migrate:   NewMigrateArticlesHandler(services.Migrator, articlesLogger, gates, cfg.onMigrated, cfg.migrateOpts...),
	}
	if cfg.migrationCronIsSet {
		set.Migrate.SetCron(cfg.migrationCron, cfg.migrationCronMsg)
	}
	if services.Importer != nil {
		set.Import = NewImportLegacyHandler(services.Importer, commands.CommandLogger(provider, "legacy"), gates, cfg.onImported, cfg.importOpts...)
	}

	if reg != nil {
		for _, handler := range set.All() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// RegisterMigrationCron hands the migrate handler to a cron registrar using
// its configured schedule.
func RegisterMigrationCron(reg CronRegistrar, handler *MigrateArticlesHandler) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(handler.CronOptions(), handler.CronHandler())
}
