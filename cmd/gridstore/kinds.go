package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
)

// newKindsCommand creates the kinds command.
func newKindsCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the component kinds the store accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := buildEngine(config.Default(), nil, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold).SprintFunc()
			for _, k := range engine.Kinds() {
				marker := color.YellowString("value")
				if k.Identifiable {
					marker = color.GreenString("id")
				}
				fmt.Fprintf(out, "%-28s %s\n", bold(k.Name), marker)
				if verbose {
					fmt.Fprintf(out, "    %s\n", strings.Join(k.AllowedFields, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list each kind's patchable fields")
	return cmd
}
