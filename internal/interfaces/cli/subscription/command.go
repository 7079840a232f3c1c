package subscription

import (
	"fmt"

	"github.com/spf13/cobra"

	subscriptionUsecases "github.com/milkrun/milkrun/internal/application/subscription/usecases"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Subscription lifecycle",
	}

	cmd.AddCommand(
		newCreateCommand(),
		newUpdateCommand(),
		newPauseCommand(),
		newResumeCommand(),
		newCancelCommand(),
	)
	return cmd
}

func newCreateCommand() *cobra.Command {
	var customerID, productID, addressID uint
	var quantity, frequency, start, end string
	var customDays []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a subscription and materialize its first deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := app.Amount("quantity", quantity)
			if err != nil {
				return err
			}
			startDate := biztime.Today()
			if start != "" {
				if startDate, err = app.RequiredDate("start", start); err != nil {
					return err
				}
			}
			endDate, err := app.OptionalDate("end", end)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			sub, err := c.UseCases.CreateSubscription.Execute(cmd.Context(), subscriptionUsecases.CreateSubscriptionCommand{
				CustomerID: customerID,
				ProductID:  productID,
				AddressID:  addressID,
				Quantity:   qty,
				Frequency:  frequency,
				CustomDays: customDays,
				StartDate:  startDate,
				EndDate:    endDate,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Subscription %d created, status %s\n", sub.ID(), sub.Status())
			return nil
		},
	}

	cmd.Flags().UintVar(&customerID, "customer", 0, "Customer ID (required)")
	cmd.Flags().UintVar(&productID, "product", 0, "Product ID (required)")
	cmd.Flags().UintVar(&addressID, "address", 0, "Delivery address ID (required)")
	cmd.Flags().StringVar(&quantity, "quantity", "1", "Quantity per delivery")
	cmd.Flags().StringVar(&frequency, "frequency", "DAILY", "DAILY, ALTERNATE, WEEKDAYS, WEEKENDS or CUSTOM")
	cmd.Flags().StringSliceVar(&customDays, "days", nil, "Weekdays for CUSTOM, e.g. MON,WED,FRI")
	cmd.Flags().StringVar(&start, "start", "", "Start date (default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (optional)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newUpdateCommand() *cobra.Command {
	var id uint
	var quantity, frequency, end string
	var customDays []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change quantity, frequency or end date",
		Long:  `Change a subscription. Only the flags that are set are applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			update := subscriptionUsecases.UpdateSubscriptionCommand{SubscriptionID: id}
			if cmd.Flags().Changed("quantity") {
				qty, err := app.Amount("quantity", quantity)
				if err != nil {
					return err
				}
				update.Quantity = &qty
			}
			if cmd.Flags().Changed("frequency") {
				update.Frequency = &frequency
			}
			if cmd.Flags().Changed("days") {
				update.CustomDays = customDays
			}
			endDate, err := app.OptionalDate("end", end)
			if err != nil {
				return err
			}
			update.EndDate = endDate

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			sub, err := c.UseCases.UpdateSubscription.Execute(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Printf("Subscription %d updated, frequency %s\n", sub.ID(), sub.Frequency())
			return nil
		},
	}

	cmd.Flags().UintVar(&id, "id", 0, "Subscription ID (required)")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Quantity per delivery")
	cmd.Flags().StringVar(&frequency, "frequency", "", "DAILY, ALTERNATE, WEEKDAYS, WEEKENDS or CUSTOM")
	cmd.Flags().StringSliceVar(&customDays, "days", nil, "Weekdays for CUSTOM, e.g. MON,WED,FRI")
	cmd.Flags().StringVar(&end, "end", "", "New end date")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPauseCommand() *cobra.Command {
	var id uint
	var from, to string

	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause deliveries for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := app.RequiredDate("from", from)
			if err != nil {
				return err
			}
			end, err := app.RequiredDate("to", to)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			sub, err := c.UseCases.PauseSubscription.Execute(cmd.Context(), subscriptionUsecases.PauseSubscriptionCommand{
				SubscriptionID: id,
				StartDate:      start,
				EndDate:        end,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Subscription %d paused %s .. %s\n", sub.ID(), biztime.FormatDate(start), biztime.FormatDate(end))
			return nil
		},
	}

	cmd.Flags().UintVar(&id, "id", 0, "Subscription ID (required)")
	cmd.Flags().StringVar(&from, "from", "", "First paused date (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last paused date (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newResumeCommand() *cobra.Command {
	var id uint

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			sub, err := c.UseCases.ResumeSubscription.Execute(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Subscription %d resumed, status %s\n", sub.ID(), sub.Status())
			return nil
		},
	}

	cmd.Flags().UintVar(&id, "id", 0, "Subscription ID (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newCancelCommand() *cobra.Command {
	var id uint
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a subscription and its future deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := c.UseCases.CancelSubscription.Execute(cmd.Context(), subscriptionUsecases.CancelSubscriptionCommand{
				SubscriptionID: id,
				Reason:         reason,
			}); err != nil {
				return err
			}
			fmt.Printf("Subscription %d cancelled\n", id)
			return nil
		},
	}

	cmd.Flags().UintVar(&id, "id", 0, "Subscription ID (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
