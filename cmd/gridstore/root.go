package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// defaultConfigPath is used when neither --config nor GRIDSTORE_CONFIG is set.
const defaultConfigPath = "configs/config.yaml"

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	NoColor    bool
}

// newRootCommand creates the gridstore command tree.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gridstore",
		Short: "In-memory power network component store",
		Long: `gridstore keeps the components of an IIDM power network in memory,
applies schema-validated partial updates to them and streams every change
to live subscribers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", configPathFromEnv(), "configuration file (empty for built-in defaults)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newSchemaCommand())
	cmd.AddCommand(newKindsCommand())
	cmd.AddCommand(newTokenCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// configPathFromEnv returns GRIDSTORE_CONFIG if set, otherwise the default path.
func configPathFromEnv() string {
	if path := os.Getenv("GRIDSTORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
