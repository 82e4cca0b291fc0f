package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richtext"
	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
)

type importReport struct {
	RunID      string            `json:"run_id"               yaml:"run_id"`
	Directory  string            `json:"directory"            yaml:"directory"`
	DryRun     bool              `json:"dry_run"              yaml:"dry_run"`
	Created    []string          `json:"created,omitempty"    yaml:"created,omitempty"`
	Updated    []string          `json:"updated,omitempty"    yaml:"updated,omitempty"`
	Unchanged  []string          `json:"unchanged,omitempty"  yaml:"unchanged,omitempty"`
	Normalized []string          `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"     yaml:"errors,omitempty"`
	Duration   string            `json:"duration"             yaml:"duration"`
}

func newImportReport(result *richtext.ImportResult) importReport {
	report := importReport{
		RunID:      result.RunID.String(),
		Directory:  result.Directory,
		DryRun:     result.DryRun,
		Created:    result.Created,
		Updated:    result.Updated,
		Unchanged:  result.Unchanged,
		Normalized: result.Normalized,
		Duration:   result.Duration.String(),
	}
	if len(result.Errors) > 0 {
		report.Errors = make(map[string]string, len(result.Errors))
		for _, fileErr := range result.Errors {
			report.Errors[fileErr.Path] = fileErr.Err.Error()
		}
	}
	return report
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var (
		normalize bool
		dryRun    bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Load legacy article files from a directory",
		Long: `Discovers legacy files under dir, reads their front matter and stores each
payload as an article. With --normalize every imported article is converted
to canonical markup in the same run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *richtext.ImportResult
			opts := flags.options()
			opts.LegacyRoot = args[0]
			opts.CommandOptions = append(opts.CommandOptions, articlescmd.WithImportObserver(func(r *richtext.ImportResult) {
				result = r
			}))

			res, err := moduleBuilder(opts)
			if err != nil {
				return err
			}
			defer res.Close()

			if res.Commands.Articles == nil || res.Commands.Articles.Import == nil {
				return fmt.Errorf("legacy import is disabled; set features.legacy_import")
			}
			if err := res.Commands.Articles.Import.Execute(cmd.Context(), articlescmd.ImportLegacyCommand{
				Directory: ".",
				Normalize: normalize,
				DryRun:    dryRun,
			}); err != nil {
				return err
			}
			if result == nil {
				return nil
			}

			report := newImportReport(result)
			report.Directory = args[0]
			if err := writeReport(cmd.OutOrStdout(), format, report); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d of %d files failed to import", len(result.Errors), result.Total())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Normalize imported articles")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Report format: yaml or json")
	return cmd
}
