package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/database"
	"github.com/ridwanfathin/nfe-ingestion-service/migrations"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the invoice database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMigrator(cmd, e)
			if err != nil {
				return err
			}
			defer m.Close()

			applied, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, r := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %05d %s\n", r.Version, r.Source)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMigrator(cmd, e)
			if err != nil {
				return err
			}
			defer m.Close()

			statuses, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tSOURCE")
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(w, "%05d\t%s\t%s\n", s.Version, state, s.Source)
			}
			return w.Flush()
		},
	})

	return cmd
}

func openMigrator(cmd *cobra.Command, e *env) (*database.Migrator, error) {
	if e.cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("migrations need REPOSITORY_DRIVER=postgres, got %q", e.cfg.Database.Driver)
	}
	return database.NewMigrator(cmd.Context(), e.cfg.Database.DSN, migrations.FS)
}
