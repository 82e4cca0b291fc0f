// Package richtext converts legacy article payloads into canonical block
// markup and manages the stored articles that carry them.
package richtext

import (
	"context"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/di"
	"github.com/goliatone/go-richtext/internal/legacy"
	"github.com/goliatone/go-richtext/internal/markup"
)

// ArticleService exports the article service contract.
type ArticleService = articles.Service

// Article exports the stored article record.
type Article = articles.Article

// MigrateOptions exports the bulk normalization options.
type MigrateOptions = articles.MigrateOptions

// MigrationResult exports the bulk normalization report.
type MigrationResult = articles.MigrationResult

// ImportOptions exports the legacy import options.
type ImportOptions = legacy.ImportOptions

// ImportResult exports the legacy import report.
type ImportResult = legacy.ImportResult

// Block exports one top-level element of canonical markup.
type Block = markup.Block

// Normalize converts raw article content into canonical markup. Canonical
// input is returned unchanged.
func Normalize(raw string) string {
	return markup.Normalize(raw)
}

// IsCanonical reports whether content already holds canonical markup.
func IsCanonical(content string) bool {
	return markup.IsCanonical(content)
}

// Outline parses canonical markup into its top-level blocks.
func Outline(canonical string) ([]Block, error) {
	return markup.Outline(canonical)
}

// Module represents the top level richtext runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Articles returns the configured article service.
func (m *Module) Articles() ArticleService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ArticleService()
}

// NormalizeArticle normalizes the stored payload for slug and persists the
// canonical result.
func (m *Module) NormalizeArticle(ctx context.Context, slug string) (*Article, error) {
	return m.container.ArticleService().Normalize(ctx, slug)
}

// Migrate normalizes every stored article still in legacy format.
func (m *Module) Migrate(ctx context.Context, opts MigrateOptions) (*MigrationResult, error) {
	return m.container.Migrator().Run(ctx, opts)
}

// Import loads legacy files from dir, relative to the configured legacy root.
func (m *Module) Import(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	return m.container.Importer().ImportDirectory(ctx, dir, opts)
}

// Close releases storage handles held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
