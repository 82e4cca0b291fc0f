package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-richtext"
)

func newOutlineCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Normalize content and print its top-level blocks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			blocks, err := richtext.Outline(richtext.Normalize(string(raw)))
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, blocks)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Output format: yaml or json")
	return cmd
}
