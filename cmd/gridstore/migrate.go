package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/database"
	"github.com/nerrad567/gridstore-core/migrations"
)

// newMigrateCommand creates the migrate command group, which manages the
// journal database schema outside of serve.
func newMigrateCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the update journal schema",
		Long: `Manage the SQLite schema of the update journal.

serve applies pending migrations on start; these commands let an operator
inspect or revert them without starting the server.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), rootOpts, func(ctx context.Context, db *database.DB) error {
				if err := db.Migrate(ctx, migrations.FS); err != nil {
					return err
				}
				return printStatus(ctx, cmd, db)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), rootOpts, func(ctx context.Context, db *database.DB) error {
				m, err := db.Rollback(ctx, migrations.FS)
				if err != nil {
					return err
				}
				if m == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", color.YellowString("rolled back"), m.Version, m.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and when they were applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), rootOpts, func(ctx context.Context, db *database.DB) error {
				return printStatus(ctx, cmd, db)
			})
		},
	})

	return cmd
}

// withDatabase opens the configured journal database for the duration of fn.
func withDatabase(ctx context.Context, rootOpts *rootOptions, fn func(context.Context, *database.DB) error) error {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-mostly command

	return fn(ctx, db)
}

func printStatus(ctx context.Context, cmd *cobra.Command, db *database.DB) error {
	status, err := db.Status(ctx, migrations.FS)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, s := range status {
		state := color.YellowString("pending")
		if s.Applied() {
			state = color.GreenString("applied %s", s.AppliedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Version, s.Name, state)
	}
	return w.Flush()
}
