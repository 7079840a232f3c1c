package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/domain/billing"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// BillGenerator bills one customer for one period.
type BillGenerator interface {
	Execute(ctx context.Context, cmd GenerateBillCommand) (*billing.Bill, error)
}

type CustomerFailure struct {
	CustomerID uint
	Error      string
}

type GenerateBillsResult struct {
	Period    schedule.DateRange
	Generated int
	Skipped   int
	Errors    []CustomerFailure
}

type GenerateBillsForPeriodUseCase struct {
	subscriptionRepo subscription.Repository
	generator        BillGenerator
	logger           logger.Interface
}

func NewGenerateBillsForPeriodUseCase(
	subscriptionRepo subscription.Repository,
	generator BillGenerator,
	logger logger.Interface,
) *GenerateBillsForPeriodUseCase {
	return &GenerateBillsForPeriodUseCase{
		subscriptionRepo: subscriptionRepo,
		generator:        generator,
		logger:           logger,
	}
}

// Execute bills every customer with an active subscription. A customer
// already billed for the period is skipped; other failures are collected.
func (uc *GenerateBillsForPeriodUseCase) Execute(ctx context.Context, periodStart, periodEnd time.Time) (*GenerateBillsResult, error) {
	period, err := schedule.NewDateRange(periodStart, periodEnd)
	if err != nil {
		return nil, mapBillingError(err)
	}

	customerIDs, err := uc.subscriptionRepo.ListActiveCustomerIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list billable customers: %w", err)
	}

	result := &GenerateBillsResult{Period: period}
	for _, customerID := range customerIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, err := uc.generator.Execute(ctx, GenerateBillCommand{
			CustomerID:  customerID,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
		})
		switch {
		case err == nil:
			result.Generated++
		case errors.Is(err, billing.ErrBillAlreadyExists):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, CustomerFailure{CustomerID: customerID, Error: err.Error()})
			uc.logger.Warnw("failed to generate bill", "customer_id", customerID, "period", period.String(), "error", err)
		}
	}

	uc.logger.Infow("billing run finished",
		"period", period.String(),
		"customers", len(customerIDs),
		"generated", result.Generated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}
