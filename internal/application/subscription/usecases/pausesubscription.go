package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type PauseSubscriptionCommand struct {
	SubscriptionID uint      `validate:"required"`
	StartDate      time.Time `validate:"required"`
	EndDate        time.Time `validate:"required"`
}

type PauseSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	deliveryRepo     delivery.Repository
	settings         setting.SettingProvider
	txManager        db.Transactor
	publisher        events.EventPublisher
	logger           logger.Interface
}

func NewPauseSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	deliveryRepo delivery.Repository,
	settings setting.SettingProvider,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *PauseSubscriptionUseCase {
	return &PauseSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		deliveryRepo:     deliveryRepo,
		settings:         settings,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
	}
}

// Execute sets the pause window and drops the deliveries already scheduled
// inside it. Pausing a paused subscription replaces its window.
func (uc *PauseSubscriptionUseCase) Execute(ctx context.Context, cmd PauseSubscriptionCommand) (*subscription.Subscription, error) {
	window, err := schedule.NewDateRange(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, mapSubscriptionError(err)
	}

	sub, err := loadSubscription(ctx, uc.subscriptionRepo, cmd.SubscriptionID)
	if err != nil {
		return nil, err
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	previous := sub.PauseRange()
	if err := sub.Pause(window, biztime.Today(), settings.MaxPauseDays); err != nil {
		return nil, mapSubscriptionError(err)
	}

	var removed int64
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return err
		}
		end := window.End
		n, err := uc.deliveryRepo.DeleteScheduledForSubscription(ctx, sub.ID(), window.Start, &end)
		if err != nil {
			return fmt.Errorf("failed to remove scheduled deliveries: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to pause subscription", "subscription_id", sub.ID(), "error", err)
		return nil, mapSubscriptionError(err)
	}

	if previous != nil {
		uc.logger.Infow("pause window replaced", "subscription_id", sub.ID(), "previous", previous.String())
	}
	uc.logger.Infow("subscription paused",
		"subscription_id", sub.ID(),
		"window", window.String(),
		"deliveries_removed", removed,
	)
	publish(ctx, uc.publisher, uc.logger, subscription.NewStatusChangedEvent(subscription.EventSubscriptionPaused, sub))
	return sub, nil
}
