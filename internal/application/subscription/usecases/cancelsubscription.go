package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	SubscriptionID uint `validate:"required"`
	Reason         string
}

type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	deliveryRepo     delivery.Repository
	txManager        db.Transactor
	publisher        events.EventPublisher
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	deliveryRepo delivery.Repository,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		deliveryRepo:     deliveryRepo,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
	}
}

// Execute cancels the subscription together with every delivery from today
// on that has not been fulfilled yet.
func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
	sub, err := loadSubscription(ctx, uc.subscriptionRepo, cmd.SubscriptionID)
	if err != nil {
		return err
	}

	if err := sub.Cancel(cmd.Reason); err != nil {
		return mapSubscriptionError(err)
	}

	var cancelled int64
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return err
		}
		n, err := uc.deliveryRepo.CancelScheduledForSubscription(ctx, sub.ID(), biztime.Today())
		if err != nil {
			return fmt.Errorf("failed to cancel scheduled deliveries: %w", err)
		}
		cancelled = n
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to cancel subscription", "subscription_id", cmd.SubscriptionID, "error", err)
		return mapSubscriptionError(err)
	}

	uc.logger.Infow("subscription cancelled",
		"subscription_id", sub.ID(),
		"reason", cmd.Reason,
		"deliveries_cancelled", cancelled,
	)
	publish(ctx, uc.publisher, uc.logger, subscription.NewStatusChangedEvent(subscription.EventSubscriptionCancelled, sub))
	return nil
}
