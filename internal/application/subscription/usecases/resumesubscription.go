package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type ResumeSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	settings         setting.SettingProvider
	materializer     ScheduleMaterializer
	txManager        db.Transactor
	publisher        events.EventPublisher
	logger           logger.Interface
}

func NewResumeSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	settings setting.SettingProvider,
	materializer ScheduleMaterializer,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *ResumeSubscriptionUseCase {
	return &ResumeSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		settings:         settings,
		materializer:     materializer,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
	}
}

// Execute clears the pause and schedules the lookahead window again.
func (uc *ResumeSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*subscription.Subscription, error) {
	sub, err := loadSubscription(ctx, uc.subscriptionRepo, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := sub.Resume(); err != nil {
		return nil, mapSubscriptionError(err)
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	created := 0
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return err
		}
		result, err := uc.materializer.MaterializeSubscription(ctx, sub, lookaheadWindow(biztime.Today(), settings.LookaheadDays))
		if err != nil {
			return err
		}
		created = result.Created
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to resume subscription", "subscription_id", sub.ID(), "error", err)
		return nil, mapSubscriptionError(err)
	}

	uc.logger.Infow("subscription resumed", "subscription_id", sub.ID(), "deliveries_created", created)
	publish(ctx, uc.publisher, uc.logger, subscription.NewStatusChangedEvent(subscription.EventSubscriptionResumed, sub))
	return sub, nil
}
