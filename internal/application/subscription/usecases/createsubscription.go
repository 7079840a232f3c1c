package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

type CreateSubscriptionCommand struct {
	CustomerID uint            `validate:"required"`
	ProductID  uint            `validate:"required"`
	AddressID  uint            `validate:"required"`
	Quantity   decimal.Decimal `validate:"gt=0"`
	Frequency  string          `validate:"required"`
	CustomDays []string
	StartDate  time.Time  `validate:"required"`
	EndDate    *time.Time `validate:"omitempty"`
}

type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	productRepo      catalog.Repository
	addressRepo      customer.AddressRepository
	settings         setting.SettingProvider
	materializer     ScheduleMaterializer
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	productRepo catalog.Repository,
	addressRepo customer.AddressRepository,
	settings setting.SettingProvider,
	materializer ScheduleMaterializer,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		productRepo:      productRepo,
		addressRepo:      addressRepo,
		settings:         settings,
		materializer:     materializer,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*subscription.Subscription, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	frequency, err := schedule.ParseFrequency(cmd.Frequency)
	if err != nil {
		return nil, mapSubscriptionError(err)
	}
	customDays, err := schedule.ParseWeekdays(cmd.CustomDays)
	if err != nil {
		return nil, mapSubscriptionError(err)
	}

	product, err := uc.productRepo.GetByID(ctx, cmd.ProductID)
	if err != nil {
		uc.logger.Errorw("failed to get product", "product_id", cmd.ProductID, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, apperrors.NewNotFoundError("product not found").WithCause(catalog.ErrProductNotFound)
	}
	if !product.IsActive() {
		return nil, apperrors.NewBadRequestError("product is not available").WithCause(catalog.ErrProductInactive)
	}

	address, err := uc.addressRepo.GetByID(ctx, cmd.AddressID)
	if err != nil {
		uc.logger.Errorw("failed to get address", "address_id", cmd.AddressID, "error", err)
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	if address == nil || !address.BelongsTo(cmd.CustomerID) {
		return nil, apperrors.NewNotFoundError("address not found").WithCause(customer.ErrAddressNotFound)
	}

	today := biztime.Today()
	if biztime.TruncateDate(cmd.StartDate).Before(today) {
		return nil, apperrors.NewBadRequestError("start date cannot be in the past", biztime.FormatDate(cmd.StartDate))
	}

	sub, err := subscription.NewSubscription(subscription.NewSubscriptionParams{
		CustomerID: cmd.CustomerID,
		ProductID:  cmd.ProductID,
		AddressID:  cmd.AddressID,
		Quantity:   cmd.Quantity,
		Frequency:  frequency,
		CustomDays: customDays,
		StartDate:  cmd.StartDate,
		EndDate:    cmd.EndDate,
	})
	if err != nil {
		return nil, mapSubscriptionError(err)
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "customer_id", cmd.CustomerID, "error", err)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.materializeInitial(ctx, sub, today)

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"customer_id", sub.CustomerID(),
		"frequency", sub.Frequency(),
		"start_date", biztime.FormatDate(sub.StartDate()),
	)
	return sub, nil
}

// materializeInitial fills the lookahead window right away. The schedule job
// covers the same window, so a failure here is only logged.
func (uc *CreateSubscriptionUseCase) materializeInitial(ctx context.Context, sub *subscription.Subscription, today time.Time) {
	if uc.materializer == nil {
		return
	}
	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		uc.logger.Warnw("failed to load settings, skipping initial schedule", "subscription_id", sub.ID(), "error", err)
		return
	}
	result, err := uc.materializer.MaterializeSubscription(ctx, sub, lookaheadWindow(today, settings.LookaheadDays))
	if err != nil {
		uc.logger.Warnw("failed to materialize initial schedule", "subscription_id", sub.ID(), "error", err)
		return
	}
	uc.logger.Debugw("initial schedule materialized", "subscription_id", sub.ID(), "created", result.Created)
}
