package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/billing"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type MarkOverdueBillsUseCase struct {
	billRepo  billing.BillRepository
	publisher events.EventPublisher
	logger    logger.Interface
}

func NewMarkOverdueBillsUseCase(billRepo billing.BillRepository, publisher events.EventPublisher, logger logger.Interface) *MarkOverdueBillsUseCase {
	return &MarkOverdueBillsUseCase{billRepo: billRepo, publisher: publisher, logger: logger}
}

// Execute flags unpaid bills past their due date and returns how many changed.
// A bill that fails to update is logged and skipped.
func (uc *MarkOverdueBillsUseCase) Execute(ctx context.Context) (int, error) {
	today := biztime.Today()
	bills, err := uc.billRepo.ListOverdueCandidates(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue candidates: %w", err)
	}

	marked := 0
	for _, bill := range bills {
		if !bill.MarkOverdue(today) {
			continue
		}
		if err := uc.billRepo.Update(ctx, bill); err != nil {
			uc.logger.Warnw("failed to mark bill overdue", "bill_id", bill.ID(), "error", err)
			continue
		}
		marked++
		publish(ctx, uc.publisher, uc.logger, billing.NewBillEvent(billing.EventBillOverdue, bill))
	}

	if marked > 0 {
		uc.logger.Infow("bills marked overdue", "count", marked, "date", biztime.FormatDate(today))
	}
	return marked, nil
}
