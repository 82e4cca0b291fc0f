package articlescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-richtext/internal/articles"
)

const (
	normalizeArticleMessageType = "richtext.articles.normalize"
	migrateArticlesMessageType  = "richtext.articles.migrate"
	importLegacyMessageType     = "richtext.legacy.import"
)

// NormalizeArticleCommand converts the stored payload of one article to
// canonical markup.
type NormalizeArticleCommand struct {
	Slug string `json:"slug"`
}

// Type implements command.Message.
func (NormalizeArticleCommand) Type() string { return normalizeArticleMessageType }

// Validate ensures a slug is present.
func (cmd NormalizeArticleCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("richtext.articles.normalize.slug_required", "slug is required")
			}
			return nil
		})),
	)
}

// MigrateArticlesCommand normalizes every legacy article in storage.
type MigrateArticlesCommand struct {
	// Workers caps concurrent normalizations. Zero picks a default.
	Workers int `json:"workers,omitempty"`
	// DryRun lists candidates without writing.
	DryRun bool `json:"dry_run,omitempty"`
	// Slugs restricts the run to the listed articles.
	Slugs []string `json:"slugs,omitempty"`
}

// Type implements command.Message.
func (MigrateArticlesCommand) Type() string { return migrateArticlesMessageType }

// Validate bounds the worker count.
func (cmd MigrateArticlesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Workers, validation.By(func(value any) error {
			workers := value.(int)
			if workers != 0 && (workers < articles.MinMigrationWorkers || workers > articles.MaxMigrationWorkers) {
				return validation.NewError("richtext.articles.migrate.workers_range", "workers must be between 1 and 16")
			}
			return nil
		})),
		validation.Field(&cmd.Slugs, validation.Each(validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("richtext.articles.migrate.slug_blank", "slugs must not be blank")
			}
			return nil
		}))),
	)
}

// ImportLegacyCommand ingests a directory of legacy exports.
type ImportLegacyCommand struct {
	// Directory is resolved against the importer's root filesystem.
	Directory string `json:"directory"`
	// Normalize converts imported legacy bodies right away.
	Normalize bool `json:"normalize,omitempty"`
	// DryRun reports the plan without writing.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportLegacyCommand) Type() string { return importLegacyMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportLegacyCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("richtext.legacy.import.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
