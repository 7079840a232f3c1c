package capacity

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	adhocUsecases "github.com/milkrun/milkrun/internal/application/adhoc/usecases"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Adhoc request capacity per date",
	}

	cmd.AddCommand(newShowCommand(), newSetCommand())
	return cmd
}

func newShowCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show capacity for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := app.OptionalDate("from", from)
			if err != nil {
				return err
			}
			end, err := app.OptionalDate("to", to)
			if err != nil {
				return err
			}
			today := biztime.Today()
			if start == nil {
				start = &today
			}
			if end == nil {
				e := biztime.AddDays(*start, 6)
				end = &e
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := c.UseCases.GetCapacity.Execute(cmd.Context(), adhocUsecases.GetCapacityQuery{
				StartDate: *start,
				EndDate:   *end,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tMAX\tAPPROVED\tAVAILABLE\tBLOCKED\tREASON")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%t\t%s\n",
					r.Date, r.MaxCapacity, r.CurrentApproved, r.Available, r.IsBlocked, r.BlockReason)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (default from + 6 days)")
	return cmd
}

func newSetCommand() *cobra.Command {
	var date, reason string
	var maxCapacity int
	var blocked bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the maximum or block a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.RequiredDate("date", date)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			update := adhocUsecases.UpdateCapacitySettingsCommand{
				Date:        d,
				IsBlocked:   blocked,
				BlockReason: reason,
			}
			if cmd.Flags().Changed("max") {
				update.MaxCapacity = &maxCapacity
			}

			row, err := c.UseCases.UpdateCapacitySettings.Execute(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Printf("%s: max %d, approved %d, available %d, blocked %t\n",
				row.Date, row.MaxCapacity, row.CurrentApproved, row.Available, row.IsBlocked)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, required)")
	cmd.Flags().IntVar(&maxCapacity, "max", 0, "Maximum adhoc requests for this date (unset follows adhoc.default_capacity)")
	cmd.Flags().BoolVar(&blocked, "blocked", false, "Block the date for adhoc requests")
	cmd.Flags().StringVar(&reason, "reason", "", "Block reason")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
