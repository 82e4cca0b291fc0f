package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richtext"
	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
)

type migrateReport struct {
	DryRun     bool              `json:"dry_run"              yaml:"dry_run"`
	Normalized []string          `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Skipped    []string          `json:"skipped,omitempty"    yaml:"skipped,omitempty"`
	Failed     map[string]string `json:"failed,omitempty"     yaml:"failed,omitempty"`
	Duration   string            `json:"duration"             yaml:"duration"`
}

func newMigrateReport(result *richtext.MigrationResult) migrateReport {
	report := migrateReport{
		DryRun:     result.DryRun,
		Normalized: result.Normalized,
		Skipped:    result.Skipped,
		Duration:   result.Duration.String(),
	}
	if len(result.Failed) > 0 {
		report.Failed = make(map[string]string, len(result.Failed))
		for _, failure := range result.Failed {
			report.Failed[failure.Slug] = failure.Err.Error()
		}
	}
	return report
}

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	var (
		workers int
		dryRun  bool
		slugs   []string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Normalize every stored legacy article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result *richtext.MigrationResult
			opts := flags.options()
			opts.CommandOptions = append(opts.CommandOptions, articlescmd.WithMigrationObserver(func(r *richtext.MigrationResult) {
				result = r
			}))

			res, err := moduleBuilder(opts)
			if err != nil {
				return err
			}
			defer res.Close()

			if res.Commands.Articles == nil || res.Commands.Articles.Migrate == nil {
				return fmt.Errorf("article commands are disabled; set commands.enabled")
			}
			if err := res.Commands.Articles.Migrate.Execute(cmd.Context(), articlescmd.MigrateArticlesCommand{
				Workers: workers,
				DryRun:  dryRun,
				Slugs:   slugs,
			}); err != nil {
				return err
			}
			if result == nil {
				return nil
			}
			if err := writeReport(cmd.OutOrStdout(), format, newMigrateReport(result)); err != nil {
				return err
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d articles failed to normalize", len(result.Failed))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent normalizations (0 picks GOMAXPROCS, max 16)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the articles that would be normalized")
	cmd.Flags().StringSliceVar(&slugs, "slug", nil, "Restrict the run to these slugs")
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Report format: yaml or json")
	return cmd
}
