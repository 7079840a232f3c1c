package adhoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	adhocUsecases "github.com/milkrun/milkrun/internal/application/adhoc/usecases"
	adhocDomain "github.com/milkrun/milkrun/internal/domain/adhoc"
	vo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adhoc",
		Short: "Adhoc delivery requests",
	}

	cmd.AddCommand(
		newCreateCommand(),
		newUpdateCommand(),
		newReviewCommand(),
		newCancelCommand(),
	)
	return cmd
}

func newCreateCommand() *cobra.Command {
	var customerID, addressID uint
	var rawItems []string
	var notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit an adhoc request",
		Long:  `Submit an adhoc request. Each --item is PRODUCT:DATE:QUANTITY, e.g. 3:2025-03-14:2.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItems(rawItems)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			req, err := c.UseCases.CreateAdhocRequest.Execute(cmd.Context(), adhocUsecases.CreateAdhocRequestCommand{
				CustomerID: customerID,
				AddressID:  addressID,
				Items:      items,
				Notes:      notes,
			})
			if err != nil {
				return err
			}
			printRequest(req)
			return nil
		},
	}

	cmd.Flags().UintVar(&customerID, "customer", 0, "Customer ID (required)")
	cmd.Flags().UintVar(&addressID, "address", 0, "Delivery address ID (required)")
	cmd.Flags().StringArrayVar(&rawItems, "item", nil, "PRODUCT:DATE:QUANTITY, repeatable (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Customer notes")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func newUpdateCommand() *cobra.Command {
	var requestID uint
	var rawItems []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the items of a pending request",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItems(rawItems)
			if err != nil {
				return err
			}

			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			update := adhocUsecases.UpdateAdhocRequestCommand{RequestID: requestID, Items: items}
			if cmd.Flags().Changed("notes") {
				notes, _ := cmd.Flags().GetString("notes")
				update.Notes = &notes
			}

			req, err := c.UseCases.UpdateAdhocRequest.Execute(cmd.Context(), update)
			if err != nil {
				return err
			}
			printRequest(req)
			return nil
		},
	}

	cmd.Flags().UintVar(&requestID, "id", 0, "Request ID (required)")
	cmd.Flags().StringArrayVar(&rawItems, "item", nil, "PRODUCT:DATE:QUANTITY, repeatable (required)")
	cmd.Flags().String("notes", "", "Customer notes")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func newReviewCommand() *cobra.Command {
	var requestID, reviewerID uint
	var action, reason, notes string
	var force bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Approve or reject a pending request",
		Long:  `Approve or reject every item of a pending request. --force approves items on blocked or full dates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			req, err := c.UseCases.ReviewAdhocRequest.Execute(cmd.Context(), adhocUsecases.ReviewAdhocRequestCommand{
				RequestID:  requestID,
				ReviewerID: reviewerID,
				Action:     vo.ReviewAction(strings.ToLower(action)),
				Reason:     reason,
				AdminNotes: notes,
				Force:      force,
			})
			if err != nil {
				return err
			}
			printRequest(req)
			return nil
		},
	}

	cmd.Flags().UintVar(&requestID, "id", 0, "Request ID (required)")
	cmd.Flags().UintVar(&reviewerID, "reviewer", 0, "Reviewing admin ID (required)")
	cmd.Flags().StringVar(&action, "action", "approve", "approve or reject")
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")
	cmd.Flags().StringVar(&notes, "notes", "", "Admin notes")
	cmd.Flags().BoolVar(&force, "force", false, "Approve even when the date is blocked or full")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("reviewer")

	return cmd
}

func newCancelCommand() *cobra.Command {
	var requestID uint

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a request and release its capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			req, err := c.UseCases.CancelAdhocRequest.Execute(cmd.Context(), requestID)
			if err != nil {
				return err
			}
			printRequest(req)
			return nil
		},
	}

	cmd.Flags().UintVar(&requestID, "id", 0, "Request ID (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func printRequest(req *adhocDomain.Request) {
	fmt.Printf("Request %d: %s\n", req.ID(), req.Status())
	for _, item := range req.Items() {
		line := fmt.Sprintf("  item %d on %s: %s", item.ID(), biztime.FormatDate(item.RequestedDate()), item.Status())
		if item.RejectionReason() != "" {
			line += " (" + item.RejectionReason() + ")"
		}
		fmt.Println(line)
	}
}

// parseItems reads PRODUCT:DATE:QUANTITY item flags.
func parseItems(raw []string) ([]adhocUsecases.ItemInput, error) {
	items := make([]adhocUsecases.ItemInput, 0, len(raw))
	for _, r := range raw {
		parts := strings.Split(r, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --item %q: expected PRODUCT:DATE:QUANTITY", r)
		}
		productID, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --item %q: bad product id", r)
		}
		date, err := app.RequiredDate("item", parts[1])
		if err != nil {
			return nil, err
		}
		qty, err := app.Amount("item", parts[2])
		if err != nil {
			return nil, err
		}
		items = append(items, adhocUsecases.ItemInput{
			ProductID:     uint(productID),
			RequestedDate: date,
			Quantity:      qty,
		})
	}
	return items, nil
}
