package articlescmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/commands"
	"github.com/goliatone/go-richtext/internal/legacy"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const (
	normalizeOperation = "articles.normalize"
	migrateOperation   = "articles.migrate"
	importOperation    = "legacy.import"

	defaultMigrationCron = "@hourly"
)

var (
	ErrMigrationDisabled    = errors.New("articles command: migration disabled")
	ErrLegacyImportDisabled = errors.New("articles command: legacy import disabled")
)

var (
	_ command.Commander[NormalizeArticleCommand] = (*NormalizeArticleHandler)(nil)
	_ command.Commander[MigrateArticlesCommand]  = (*MigrateArticlesHandler)(nil)
	_ command.Commander[ImportLegacyCommand]     = (*ImportLegacyHandler)(nil)
	_ command.CronCommand                        = (*MigrateArticlesHandler)(nil)
)

// ArticleNormalizer normalizes a single stored article.
type ArticleNormalizer interface {
	Normalize(ctx context.Context, slug string) (*articles.Article, error)
}

// MigrationRunner runs a bulk normalization.
type MigrationRunner interface {
	Run(ctx context.Context, opts articles.MigrateOptions) (*articles.MigrationResult, error)
}

// DirectoryImporter ingests a directory of legacy files.
type DirectoryImporter interface {
	ImportDirectory(ctx context.Context, dir string, opts legacy.ImportOptions) (*legacy.ImportResult, error)
}

// NormalizeArticleHandler runs NormalizeArticleCommand.
type NormalizeArticleHandler struct {
	inner *commands.Handler[NormalizeArticleCommand]
}

// NewNormalizeArticleHandler binds the handler to service. observe, when
// set, receives the stored article.
func NewNormalizeArticleHandler(service ArticleNormalizer, logger interfaces.Logger, observe func(*articles.Article), opts ...commands.HandlerOption[NormalizeArticleCommand]) *NormalizeArticleHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg NormalizeArticleCommand) error {
		record, err := service.Normalize(ctx, strings.TrimSpace(msg.Slug))
		if err != nil {
			return err
		}
		if observe != nil {
			observe(record)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[NormalizeArticleCommand]{
		commands.WithLogger[NormalizeArticleCommand](baseLogger),
		commands.WithOperation[NormalizeArticleCommand](normalizeOperation),
		commands.WithMessageFields(func(msg NormalizeArticleCommand) map[string]any {
			return map[string]any{"slug": strings.TrimSpace(msg.Slug)}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[NormalizeArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &NormalizeArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[NormalizeArticleCommand].
func (h *NormalizeArticleHandler) Execute(ctx context.Context, msg NormalizeArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIOptions describes the CLI metadata for single article normalization.
func (h *NormalizeArticleHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"articles", "normalize"},
		Group:       "articles",
		Description: "Normalize one stored article to canonical markup",
	}
}

// MigrateArticlesHandler runs MigrateArticlesCommand and can be scheduled.
type MigrateArticlesHandler struct {
	inner      *commands.Handler[MigrateArticlesCommand]
	cronConfig command.HandlerConfig
	cronMsg    MigrateArticlesCommand
}

// NewMigrateArticlesHandler binds the handler to runner. Per-article failures
// are logged and reported to observe; they do not fail the command.
func NewMigrateArticlesHandler(runner MigrationRunner, logger interfaces.Logger, gates FeatureGates, observe func(*articles.MigrationResult), opts ...commands.HandlerOption[MigrateArticlesCommand]) *MigrateArticlesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MigrateArticlesCommand) error {
		if !gates.migrationEnabled() {
			return ErrMigrationDisabled
		}
		result, err := runner.Run(ctx, articles.MigrateOptions{
			Workers: msg.Workers,
			DryRun:  msg.DryRun,
			Slugs:   msg.Slugs,
		})
		if err != nil {
			return err
		}
		entry := logging.WithFields(baseLogger, map[string]any{
			"normalized_count": len(result.Normalized),
			"skipped_count":    len(result.Skipped),
			"failed_count":     len(result.Failed),
			"dry_run":          msg.DryRun,
		})
		for _, failure := range result.Failed {
			entry.Warn("articles.command.migrate.article_failed", "slug", failure.Slug, "error", failure.Err)
		}
		entry.Info("articles.command.migrate.completed")
		if observe != nil {
			observe(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[MigrateArticlesCommand]{
		commands.WithLogger[MigrateArticlesCommand](baseLogger),
		commands.WithOperation[MigrateArticlesCommand](migrateOperation),
		commands.WithTimeout[MigrateArticlesCommand](0),
		commands.WithMessageFields(func(msg MigrateArticlesCommand) map[string]any {
			fields := map[string]any{}
			if msg.Workers > 0 {
				fields["workers"] = msg.Workers
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if len(msg.Slugs) > 0 {
				fields["slugs"] = strings.Join(msg.Slugs, ",")
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MigrateArticlesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MigrateArticlesHandler{
		inner:      commands.NewHandler(exec, handlerOpts...),
		cronConfig: command.HandlerConfig{Expression: defaultMigrationCron},
	}
}

// Execute satisfies command.Commander[MigrateArticlesCommand].
func (h *MigrateArticlesHandler) Execute(ctx context.Context, msg MigrateArticlesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SetCron replaces the schedule and the message run on each tick. A blank
// expression keeps the current one.
func (h *MigrateArticlesHandler) SetCron(expression string, msg MigrateArticlesCommand) {
	if trimmed := strings.TrimSpace(expression); trimmed != "" {
		h.cronConfig.Expression = trimmed
	}
	h.cronMsg = msg
}

// CronHandler satisfies command.CronCommand.
func (h *MigrateArticlesHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), h.cronMsg)
	}
}

// CronOptions satisfies command.CronCommand.
func (h *MigrateArticlesHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIOptions describes the CLI metadata for bulk migration.
func (h *MigrateArticlesHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"articles", "migrate"},
		Group:       "articles",
		Description: "Normalize every legacy article; supports dry-run",
	}
}

// ImportLegacyHandler runs ImportLegacyCommand.
type ImportLegacyHandler struct {
	inner *commands.Handler[ImportLegacyCommand]
}

// NewImportLegacyHandler binds the handler to importer.
func NewImportLegacyHandler(importer DirectoryImporter, logger interfaces.Logger, gates FeatureGates, observe func(*legacy.ImportResult), opts ...commands.HandlerOption[ImportLegacyCommand]) *ImportLegacyHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportLegacyCommand) error {
		if !gates.legacyImportEnabled() {
			return ErrLegacyImportDisabled
		}
		result, err := importer.ImportDirectory(ctx, msg.Directory, legacy.ImportOptions{
			DryRun:    msg.DryRun,
			Normalize: msg.Normalize,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id":           result.RunID.String(),
			"created_count":    len(result.Created),
			"updated_count":    len(result.Updated),
			"unchanged_count":  len(result.Unchanged),
			"normalized_count": len(result.Normalized),
			"error_count":      len(result.Errors),
			"dry_run":          msg.DryRun,
		}).Info("legacy.command.import.completed")
		if observe != nil {
			observe(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportLegacyCommand]{
		commands.WithLogger[ImportLegacyCommand](baseLogger),
		commands.WithOperation[ImportLegacyCommand](importOperation),
		commands.WithTimeout[ImportLegacyCommand](0),
		commands.WithMessageFields(func(msg ImportLegacyCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.Normalize {
				fields["normalize"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportLegacyCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportLegacyHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportLegacyCommand].
func (h *ImportLegacyHandler) Execute(ctx context.Context, msg ImportLegacyCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIOptions describes the CLI metadata for legacy imports.
func (h *ImportLegacyHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"legacy", "import"},
		Group:       "legacy",
		Description: "Import a directory of legacy article exports",
	}
}
