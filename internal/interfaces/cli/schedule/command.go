package schedule

import (
	"fmt"

	"github.com/spf13/cobra"

	subscriptionUsecases "github.com/milkrun/milkrun/internal/application/subscription/usecases"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

var (
	from           string
	to             string
	subscriptionID uint
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Delivery schedule tools",
	}

	cmd.AddCommand(newGenerateCommand())
	return cmd
}

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Materialize deliveries for active subscriptions",
		Long: `Create the missing deliveries for every active subscription in the window.
Without --from/--to the window is today through today plus the lookahead setting.
Existing deliveries are left untouched, so the command can be re-run safely.`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVar(&from, "from", "", "First date of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date of the window (YYYY-MM-DD)")
	cmd.Flags().UintVar(&subscriptionID, "subscription", 0, "Only this subscription")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start, err := app.OptionalDate("from", from)
	if err != nil {
		return err
	}
	end, err := app.OptionalDate("to", to)
	if err != nil {
		return err
	}

	c, cleanup, err := app.Bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	command := subscriptionUsecases.GenerateScheduleCommand{StartDate: start, EndDate: end}
	if subscriptionID != 0 {
		command.SubscriptionID = &subscriptionID
	}

	result, err := c.UseCases.GenerateSchedule.Execute(cmd.Context(), command)
	if err != nil {
		return err
	}

	fmt.Printf("Window:     %s .. %s\n", biztime.FormatDate(result.Window.Start), biztime.FormatDate(result.Window.End))
	fmt.Printf("Processed:  %d\n", result.Processed)
	fmt.Printf("Created:    %d\n", result.Created)
	fmt.Printf("Skipped:    %d\n", result.Skipped)
	fmt.Printf("Failed:     %d\n", result.Failed)
	for _, f := range result.Errors {
		fmt.Printf("  subscription %d: %s\n", f.SubscriptionID, f.Error)
	}
	return nil
}
