package billing

import (
	"fmt"

	"github.com/spf13/cobra"

	billingUsecases "github.com/milkrun/milkrun/internal/application/billing/usecases"
	"github.com/milkrun/milkrun/internal/infrastructure/scheduler"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Bills, payments and wallets",
	}

	cmd.AddCommand(
		newGenerateCommand(),
		newMarkOverdueCommand(),
		newCancelCommand(),
		newPayCommand(),
		newTopUpCommand(),
	)
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var from, to string
	var customerID uint

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate bills for a period",
		Long: `Generate one bill per customer with an active subscription. Without
--from/--to the previous calendar month is billed. Customers already billed for
the period are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end := scheduler.PreviousMonth(biztime.Today())
			if from != "" || to != "" {
				var err error
				if start, err = app.RequiredDate("from", from); err != nil {
					return err
				}
				if end, err = app.RequiredDate("to", to); err != nil {
					return err
				}
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if customerID != 0 {
				bill, err := c.UseCases.GenerateBill.Execute(cmd.Context(), billingUsecases.GenerateBillCommand{
					CustomerID:  customerID,
					PeriodStart: start,
					PeriodEnd:   end,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Bill %s: total %s, status %s, due %s\n",
					bill.BillNumber(), bill.TotalAmount().StringFixed(2), bill.Status(), biztime.FormatDate(bill.DueDate()))
				return nil
			}

			result, err := c.UseCases.GenerateBillsForPeriod.Execute(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			fmt.Printf("Period:     %s .. %s\n", biztime.FormatDate(result.Period.Start), biztime.FormatDate(result.Period.End))
			fmt.Printf("Generated:  %d\n", result.Generated)
			fmt.Printf("Skipped:    %d\n", result.Skipped)
			fmt.Printf("Failed:     %d\n", len(result.Errors))
			for _, f := range result.Errors {
				fmt.Printf("  customer %d: %s\n", f.CustomerID, f.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date of the period (YYYY-MM-DD)")
	cmd.Flags().UintVar(&customerID, "customer", 0, "Only bill this customer")

	return cmd
}

func newMarkOverdueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Mark unpaid bills past their due date as overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := c.UseCases.MarkOverdueBills.Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Bills marked overdue: %d\n", n)
			return nil
		},
	}
}

func newCancelCommand() *cobra.Command {
	var billID uint
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a bill without payments and refund applied credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			bill, err := c.UseCases.CancelBill.Execute(cmd.Context(), billingUsecases.CancelBillCommand{
				BillID: billID,
				Reason: reason,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Bill %s cancelled, credits refunded: %s\n", bill.BillNumber(), bill.CreditsApplied().StringFixed(2))
			return nil
		},
	}

	cmd.Flags().UintVar(&billID, "bill", 0, "Bill ID (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")
	_ = cmd.MarkFlagRequired("bill")

	return cmd
}

func newPayCommand() *cobra.Command {
	var billID uint
	var amount, method, reference, notes string

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record a payment against a bill",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := app.Amount("amount", amount)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			payment, err := c.UseCases.RecordPayment.Execute(cmd.Context(), billingUsecases.RecordPaymentCommand{
				BillID:    billID,
				Amount:    value,
				Method:    method,
				Reference: reference,
				Notes:     notes,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Payment %d recorded: %s via %s (%s)\n",
				payment.ID(), payment.Amount().StringFixed(2), payment.Method(), payment.Reference())
			return nil
		},
	}

	cmd.Flags().UintVar(&billID, "bill", 0, "Bill ID (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount paid (required)")
	cmd.Flags().StringVar(&method, "method", "CASH", "Payment method")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("bill")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTopUpCommand() *cobra.Command {
	var customerID uint
	var amount, reference string

	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Credit a customer's wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := app.Amount("amount", amount)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			wallet, err := c.UseCases.TopUpWallet.Execute(cmd.Context(), billingUsecases.TopUpWalletCommand{
				CustomerID: customerID,
				Amount:     value,
				Reference:  reference,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Wallet balance for customer %d: %s\n", wallet.CustomerID(), wallet.Balance().StringFixed(2))
			return nil
		},
	}

	cmd.Flags().UintVar(&customerID, "customer", 0, "Customer ID (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to credit (required)")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
