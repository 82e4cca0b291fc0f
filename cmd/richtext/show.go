package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print a stored article",
		Long: `Prints the article stored under slug. The html format writes only the
payload: the canonical body once normalized, the legacy source otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := moduleBuilder(flags.options())
			if err != nil {
				return err
			}
			defer res.Close()

			article, err := res.Module.Articles().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if strings.EqualFold(strings.TrimSpace(format), formatHTML) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), article.Payload())
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, article)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Output format: yaml, json or html")
	return cmd
}
