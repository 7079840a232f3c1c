package delivery

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	deliveryUsecases "github.com/milkrun/milkrun/internal/application/delivery/usecases"
	vo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Delivery fulfillment",
	}

	cmd.AddCommand(newFulfillCommand())
	return cmd
}

func newFulfillCommand() *cobra.Command {
	var deliveryID uint
	var status, quantity, notes string

	cmd := &cobra.Command{
		Use:   "fulfill",
		Short: "Record the outcome of a delivery",
		Long:  `Record DELIVERED, PARTIAL or MISSED. PARTIAL requires --quantity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var delivered *decimal.Decimal
			if quantity != "" {
				q, err := app.Amount("quantity", quantity)
				if err != nil {
					return err
				}
				delivered = &q
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := c.UseCases.RecordFulfillment.Execute(cmd.Context(), deliveryUsecases.RecordFulfillmentCommand{
				DeliveryID:        deliveryID,
				Status:            vo.DeliveryStatus(strings.ToUpper(status)),
				DeliveredQuantity: delivered,
				Notes:             notes,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Delivery %d on %s: %s\n", d.ID(), biztime.FormatDate(d.DeliveryDate()), d.Status())
			return nil
		},
	}

	cmd.Flags().UintVar(&deliveryID, "id", 0, "Delivery ID (required)")
	cmd.Flags().StringVar(&status, "status", "DELIVERED", "DELIVERED, PARTIAL or MISSED")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Delivered quantity")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
