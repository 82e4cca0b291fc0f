package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richtext"
	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
)

func newNormalizeCmd(flags *globalFlags) *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Convert legacy content to canonical markup",
		Long: `Reads legacy content from file, or stdin when no file is given, and writes
canonical markup to stdout. With --slug the stored article is normalized in
place instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if slug != "" {
				if len(args) > 0 {
					return fmt.Errorf("--slug cannot be combined with a file argument")
				}
				return normalizeStored(cmd, flags, slug)
			}

			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), richtext.Normalize(string(raw)))
			return err
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "Normalize the stored article with this slug")
	return cmd
}

func normalizeStored(cmd *cobra.Command, flags *globalFlags, slug string) error {
	var normalized *richtext.Article
	opts := flags.options()
	opts.CommandOptions = append(opts.CommandOptions, articlescmd.WithNormalizedObserver(func(article *richtext.Article) {
		normalized = article
	}))

	res, err := moduleBuilder(opts)
	if err != nil {
		return err
	}
	defer res.Close()

	if res.Commands.Articles == nil || res.Commands.Articles.Normalize == nil {
		return fmt.Errorf("article commands are disabled; set commands.enabled")
	}
	if err := res.Commands.Articles.Normalize.Execute(cmd.Context(), articlescmd.NormalizeArticleCommand{Slug: slug}); err != nil {
		return err
	}
	if normalized == nil {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), normalized.Body)
	return err
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return raw, nil
}
