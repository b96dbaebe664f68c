// Command invoicectl runs operator tasks against the invoice stores:
// schema migrations and blob reconciliation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/config"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/logging"
)

var version = "dev"

// env is filled by the root command before any subcommand runs.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Operator tasks for the NF-e ingestion service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logging.NewLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}

	root.AddCommand(newMigrateCmd(e))
	root.AddCommand(newReconcileCmd(e))
	return root
}
