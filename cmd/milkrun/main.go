package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/milkrun/milkrun/internal/interfaces/cli/adhoc"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/interfaces/cli/billing"
	"github.com/milkrun/milkrun/internal/interfaces/cli/capacity"
	"github.com/milkrun/milkrun/internal/interfaces/cli/delivery"
	"github.com/milkrun/milkrun/internal/interfaces/cli/migrate"
	"github.com/milkrun/milkrun/internal/interfaces/cli/schedule"
	"github.com/milkrun/milkrun/internal/interfaces/cli/settings"
	"github.com/milkrun/milkrun/internal/interfaces/cli/subscription"
	"github.com/milkrun/milkrun/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "milkrun",
		Short: "milkrun - milk subscription delivery engine",
		Long: `milkrun schedules recurring and adhoc milk deliveries, tracks adhoc capacity
per date, and produces monthly bills with payments and wallet credits.`,
		SilenceUsage: true,
	}
	app.BindFlags(rootCmd)

	rootCmd.AddCommand(
		migrate.NewCommand(),
		worker.NewCommand(),
		schedule.NewCommand(),
		subscription.NewCommand(),
		delivery.NewCommand(),
		adhoc.NewCommand(),
		capacity.NewCommand(),
		billing.NewCommand(),
		settings.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
