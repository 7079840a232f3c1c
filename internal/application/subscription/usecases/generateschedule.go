package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// GenerateScheduleCommand selects the window and, optionally, one
// subscription. A nil bound defaults to today or today + lookahead.
type GenerateScheduleCommand struct {
	StartDate      *time.Time
	EndDate        *time.Time
	SubscriptionID *uint
}

type SubscriptionFailure struct {
	SubscriptionID uint
	Error          string
}

type GenerateScheduleResult struct {
	Window    schedule.DateRange
	Processed int
	Created   int
	Skipped   int
	Failed    int
	Errors    []SubscriptionFailure
}

type GenerateScheduleUseCase struct {
	subscriptionRepo subscription.Repository
	settings         setting.SettingProvider
	materializer     ScheduleMaterializer
	logger           logger.Interface
}

func NewGenerateScheduleUseCase(
	subscriptionRepo subscription.Repository,
	settings setting.SettingProvider,
	materializer ScheduleMaterializer,
	logger logger.Interface,
) *GenerateScheduleUseCase {
	return &GenerateScheduleUseCase{
		subscriptionRepo: subscriptionRepo,
		settings:         settings,
		materializer:     materializer,
		logger:           logger,
	}
}

// Execute materializes every schedulable subscription over the window. One
// subscription failing is recorded in the result and does not stop the batch.
func (uc *GenerateScheduleUseCase) Execute(ctx context.Context, cmd GenerateScheduleCommand) (*GenerateScheduleResult, error) {
	window, err := uc.resolveWindow(ctx, cmd)
	if err != nil {
		return nil, err
	}

	subs, err := uc.selectSubscriptions(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := &GenerateScheduleResult{Window: window}
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Processed++
		res, err := uc.materializer.MaterializeSubscription(ctx, sub, window)
		result.Created += res.Created
		result.Skipped += res.Skipped
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, SubscriptionFailure{SubscriptionID: sub.ID(), Error: err.Error()})
			uc.logger.Warnw("failed to materialize subscription", "subscription_id", sub.ID(), "error", err)
		}
	}

	uc.logger.Infow("schedule generated",
		"window", window.String(),
		"processed", result.Processed,
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (uc *GenerateScheduleUseCase) resolveWindow(ctx context.Context, cmd GenerateScheduleCommand) (schedule.DateRange, error) {
	today := biztime.Today()
	start := today
	if cmd.StartDate != nil {
		start = biztime.TruncateDate(*cmd.StartDate)
	}

	var end time.Time
	if cmd.EndDate != nil {
		end = biztime.TruncateDate(*cmd.EndDate)
	} else {
		settings, err := uc.settings.BusinessSettings(ctx)
		if err != nil {
			return schedule.DateRange{}, fmt.Errorf("failed to load business settings: %w", err)
		}
		end = lookaheadWindow(start, settings.LookaheadDays).End
	}

	window, err := schedule.NewDateRange(start, end)
	if err != nil {
		return schedule.DateRange{}, apperrors.NewBadRequestError(err.Error()).WithCause(err)
	}
	return window, nil
}

func (uc *GenerateScheduleUseCase) selectSubscriptions(ctx context.Context, id *uint) ([]*subscription.Subscription, error) {
	if id == nil {
		subs, err := uc.subscriptionRepo.ListSchedulable(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list schedulable subscriptions: %w", err)
		}
		return subs, nil
	}
	sub, err := loadSubscription(ctx, uc.subscriptionRepo, *id)
	if err != nil {
		return nil, err
	}
	return []*subscription.Subscription{sub}, nil
}
