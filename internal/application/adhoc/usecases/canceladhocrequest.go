package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type CancelAdhocRequestUseCase struct {
	requestRepo  adhoc.RequestRepository
	deliveryRepo delivery.Repository
	ledger       *CapacityLedger
	settings     setting.SettingProvider
	txManager    db.Transactor
	publisher    events.EventPublisher
	logger       logger.Interface
}

func NewCancelAdhocRequestUseCase(
	requestRepo adhoc.RequestRepository,
	deliveryRepo delivery.Repository,
	ledger *CapacityLedger,
	settings setting.SettingProvider,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *CancelAdhocRequestUseCase {
	return &CancelAdhocRequestUseCase{
		requestRepo:  requestRepo,
		deliveryRepo: deliveryRepo,
		ledger:       ledger,
		settings:     settings,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute withdraws a request. For an approved request it also cancels the
// pending deliveries and gives the reserved capacity back.
func (uc *CancelAdhocRequestUseCase) Execute(ctx context.Context, requestID uint) (*adhoc.Request, error) {
	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	var request *adhoc.Request
	var released []*adhoc.Item
	var cancelledDeliveries int64
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := lockRequest(ctx, uc.requestRepo, requestID)
		if err != nil {
			return err
		}
		request = r

		released, err = request.Cancel(biztime.NowUTC(), settings.CancelBeforeHours)
		if err != nil {
			return err
		}
		if err := uc.requestRepo.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update adhoc request: %w", err)
		}
		if len(released) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(released))
		for _, item := range released {
			ids = append(ids, item.ID())
		}
		n, err := uc.deliveryRepo.CancelScheduledForAdhocItems(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to cancel adhoc deliveries: %w", err)
		}
		cancelledDeliveries = n

		return uc.ledger.Release(ctx, countByDate(released))
	})
	if err != nil {
		uc.logger.Warnw("failed to cancel adhoc request", "request_id", requestID, "error", err)
		return nil, mapAdhocError(err)
	}

	uc.logger.Infow("adhoc request cancelled",
		"request_id", request.ID(),
		"released_items", len(released),
		"deliveries_cancelled", cancelledDeliveries,
	)
	publish(ctx, uc.publisher, uc.logger, adhoc.NewRequestEvent(adhoc.EventRequestCancelled, request))
	return request, nil
}
