package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-richtext/commands/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

type globalFlags struct {
	configPath string
	storage    string
	driver     string
	dsn        string
	path       string
	logLevel   string
}

func (g *globalFlags) options() bootstrap.Options {
	return bootstrap.Options{
		ConfigPath: g.configPath,
		Storage:    g.storage,
		Driver:     g.driver,
		DSN:        g.dsn,
		Path:       g.path,
		LogLevel:   g.logLevel,
	}
}

func (g *globalFlags) bind(pf *pflag.FlagSet) {
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file (yaml, json or toml)")
	pf.StringVar(&g.storage, "storage", "", "Storage backend: memory, bun or bolt")
	pf.StringVar(&g.driver, "driver", "", "SQL driver for the bun backend: sqlite or postgres")
	pf.StringVar(&g.dsn, "dsn", "", "Database DSN for the bun backend")
	pf.StringVar(&g.path, "path", "", "Database file for the bolt backend")
	pf.StringVar(&g.logLevel, "log-level", "", "Enable logging at this level")
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "richtext",
		Short: "Normalize legacy article markup into canonical HTML blocks",
		Long: `richtext converts legacy article payloads (markdown-like markers mixed
with HTML) into canonical block markup and manages stored articles.

Examples:
  richtext normalize draft.txt
  cat draft.txt | richtext normalize
  richtext import ./export --normalize --storage bolt --path articles.db
  richtext migrate --workers 4 --storage bolt --path articles.db
  richtext show welcome --format json --storage bolt --path articles.db`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags.bind(root.PersistentFlags())

	root.AddCommand(
		newNormalizeCmd(flags),
		newOutlineCmd(),
		newImportCmd(flags),
		newMigrateCmd(flags),
		newShowCmd(flags),
	)
	return root
}
