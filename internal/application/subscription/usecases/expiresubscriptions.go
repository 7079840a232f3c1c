package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// ExpireSubscriptionsUseCase moves subscriptions whose end date has passed to
// EXPIRED. Runs from the maintenance job.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	publisher        events.EventPublisher
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.Repository,
	publisher events.EventPublisher,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// Execute returns the number of subscriptions marked as expired.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	ended, err := uc.subscriptionRepo.ListEndedBefore(ctx, biztime.Today())
	if err != nil {
		return 0, fmt.Errorf("failed to find ended subscriptions: %w", err)
	}
	if len(ended) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found ended subscriptions to process", "count", len(ended))

	marked := 0
	for _, sub := range ended {
		if err := sub.MarkAsExpired(); err != nil {
			uc.logger.Warnw("failed to mark subscription as expired",
				"subscription_id", sub.ID(),
				"current_status", sub.Status().String(),
				"error", err,
			)
			continue
		}

		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to update expired subscription",
				"subscription_id", sub.ID(),
				"error", err,
			)
			continue
		}

		marked++
		uc.logger.Debugw("subscription marked as expired", "subscription_id", sub.ID())
		publish(ctx, uc.publisher, uc.logger, subscription.NewStatusChangedEvent(subscription.EventSubscriptionExpired, sub))
	}

	return marked, nil
}
