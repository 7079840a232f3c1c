package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// UpdateSubscriptionCommand changes the terms of a subscription. Nil fields
// are left as they are. A non-nil CustomDays replaces the weekday set.
type UpdateSubscriptionCommand struct {
	SubscriptionID uint `validate:"required"`
	Quantity       *decimal.Decimal
	Frequency      *string
	CustomDays     []string
	EndDate        *time.Time
}

type UpdateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	deliveryRepo     delivery.Repository
	settings         setting.SettingProvider
	materializer     ScheduleMaterializer
	txManager        db.Transactor
	logger           logger.Interface
}

func NewUpdateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	deliveryRepo delivery.Repository,
	settings setting.SettingProvider,
	materializer ScheduleMaterializer,
	txManager db.Transactor,
	logger logger.Interface,
) *UpdateSubscriptionUseCase {
	return &UpdateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		deliveryRepo:     deliveryRepo,
		settings:         settings,
		materializer:     materializer,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute applies the new terms and rebuilds the schedule from tomorrow on.
// Today's delivery is left as planned.
func (uc *UpdateSubscriptionUseCase) Execute(ctx context.Context, cmd UpdateSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := loadSubscription(ctx, uc.subscriptionRepo, cmd.SubscriptionID)
	if err != nil {
		return nil, err
	}

	var frequency *schedule.Frequency
	if cmd.Frequency != nil {
		f, err := schedule.ParseFrequency(*cmd.Frequency)
		if err != nil {
			return nil, mapSubscriptionError(err)
		}
		frequency = &f
	}
	var customDays *schedule.WeekdaySet
	if cmd.CustomDays != nil {
		days, err := schedule.ParseWeekdays(cmd.CustomDays)
		if err != nil {
			return nil, mapSubscriptionError(err)
		}
		customDays = &days
	}

	if err := sub.UpdateTerms(cmd.Quantity, frequency, customDays, cmd.EndDate); err != nil {
		return nil, mapSubscriptionError(err)
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}
	today := biztime.Today()
	tomorrow := biztime.AddDays(today, 1)

	var removed int64
	created := 0
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return err
		}
		n, err := uc.deliveryRepo.DeleteScheduledForSubscription(ctx, sub.ID(), tomorrow, nil)
		if err != nil {
			return fmt.Errorf("failed to remove scheduled deliveries: %w", err)
		}
		removed = n

		window := lookaheadWindow(today, settings.LookaheadDays)
		if window.End.Before(tomorrow) {
			return nil
		}
		res, err := uc.materializer.MaterializeSubscription(ctx, sub, schedule.MustDateRange(tomorrow, window.End))
		if err != nil {
			return err
		}
		created = res.Created
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to update subscription", "subscription_id", sub.ID(), "error", err)
		return nil, mapSubscriptionError(err)
	}

	uc.logger.Infow("subscription updated",
		"subscription_id", sub.ID(),
		"quantity", sub.Quantity().String(),
		"frequency", sub.Frequency(),
		"deliveries_removed", removed,
		"deliveries_created", created,
	)
	return sub, nil
}
