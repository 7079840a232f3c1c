package settings

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	settingUsecases "github.com/milkrun/milkrun/internal/application/setting/usecases"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Business settings",
	}

	cmd.AddCommand(newShowCommand(), newSetCommand())
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective business settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := c.BusinessSettings(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyAdhocMinAdvanceDays, s.MinAdvanceDays)
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyAdhocMaxAdvanceDays, s.MaxAdvanceDays)
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyAdhocDefaultCapacity, s.DefaultCapacity)
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyAdhocCancelBeforeHours, s.CancelBeforeHours)
			fmt.Fprintf(w, "%s\t%s\n", setting.KeyBillingTaxPercentage, s.TaxPercentage.String())
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyBillingDueDays, s.BillDueDays)
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyMaxPauseDays, s.MaxPauseDays)
			fmt.Fprintf(w, "%s\t%d\n", setting.KeyScheduleLookaheadDays, s.LookaheadDays)
			return w.Flush()
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a business setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := c.UseCases.UpdateSetting.Execute(cmd.Context(), settingUsecases.UpdateSettingCommand{
				Key:   args[0],
				Value: args[1],
			}); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}
}
