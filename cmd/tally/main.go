package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/tally/internal/interfaces/cli/metrics"
	"github.com/orris-inc/tally/internal/interfaces/cli/migrate"
	"github.com/orris-inc/tally/internal/interfaces/cli/server"
	"github.com/orris-inc/tally/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tally",
		Short:        "Tally - subscription revenue analytics",
		Long:         `Tally aggregates MRR, churn, LTV and revenue from payment-provider webhooks and serves them from a per-user metrics cache.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		metrics.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
