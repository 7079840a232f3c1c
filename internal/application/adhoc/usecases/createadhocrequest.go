package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

type CreateAdhocRequestCommand struct {
	CustomerID uint        `validate:"required"`
	AddressID  uint        `validate:"required"`
	Items      []ItemInput `validate:"required,min=1,dive"`
	Notes      string      `validate:"max=500"`
}

type CreateAdhocRequestUseCase struct {
	requestRepo adhoc.RequestRepository
	addressRepo customer.AddressRepository
	settings    setting.SettingProvider
	items       *itemBuilder
	logger      logger.Interface
}

func NewCreateAdhocRequestUseCase(
	requestRepo adhoc.RequestRepository,
	productRepo catalog.Repository,
	addressRepo customer.AddressRepository,
	ledger *CapacityLedger,
	settings setting.SettingProvider,
	logger logger.Interface,
) *CreateAdhocRequestUseCase {
	return &CreateAdhocRequestUseCase{
		requestRepo: requestRepo,
		addressRepo: addressRepo,
		settings:    settings,
		items:       &itemBuilder{productRepo: productRepo, ledger: ledger},
		logger:      logger,
	}
}

func (uc *CreateAdhocRequestUseCase) Execute(ctx context.Context, cmd CreateAdhocRequestCommand) (*adhoc.Request, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	address, err := uc.addressRepo.GetByID(ctx, cmd.AddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	if address == nil || !address.BelongsTo(cmd.CustomerID) {
		return nil, apperrors.NewNotFoundError("address not found").WithCause(customer.ErrAddressNotFound)
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	items, err := uc.items.build(ctx, cmd.Items, settings, biztime.Today())
	if err != nil {
		return nil, err
	}

	request, err := adhoc.NewRequest(cmd.CustomerID, cmd.AddressID, items, cmd.Notes)
	if err != nil {
		return nil, mapAdhocError(err)
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		uc.logger.Errorw("failed to create adhoc request", "customer_id", cmd.CustomerID, "error", err)
		return nil, fmt.Errorf("failed to create adhoc request: %w", err)
	}

	uc.logger.Infow("adhoc request created",
		"request_id", request.ID(),
		"customer_id", request.CustomerID(),
		"items", len(items),
		"estimated_cost", request.EstimatedCost().StringFixed(2),
	)
	return request, nil
}
