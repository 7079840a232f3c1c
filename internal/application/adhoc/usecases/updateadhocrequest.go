package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	vo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

// UpdateAdhocRequestCommand replaces the items of a pending request. A nil
// Notes keeps the current notes.
type UpdateAdhocRequestCommand struct {
	RequestID uint        `validate:"required"`
	Items     []ItemInput `validate:"required,min=1,dive"`
	Notes     *string
}

type UpdateAdhocRequestUseCase struct {
	requestRepo adhoc.RequestRepository
	settings    setting.SettingProvider
	items       *itemBuilder
	txManager   db.Transactor
	logger      logger.Interface
}

func NewUpdateAdhocRequestUseCase(
	requestRepo adhoc.RequestRepository,
	productRepo catalog.Repository,
	ledger *CapacityLedger,
	settings setting.SettingProvider,
	txManager db.Transactor,
	logger logger.Interface,
) *UpdateAdhocRequestUseCase {
	return &UpdateAdhocRequestUseCase{
		requestRepo: requestRepo,
		settings:    settings,
		items:       &itemBuilder{productRepo: productRepo, ledger: ledger},
		txManager:   txManager,
		logger:      logger,
	}
}

func (uc *UpdateAdhocRequestUseCase) Execute(ctx context.Context, cmd UpdateAdhocRequestCommand) (*adhoc.Request, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}
	items, err := uc.items.build(ctx, cmd.Items, settings, biztime.Today())
	if err != nil {
		return nil, err
	}

	var request *adhoc.Request
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := lockRequest(ctx, uc.requestRepo, cmd.RequestID)
		if err != nil {
			return err
		}
		request = r

		if request.Status() != vo.RequestPending {
			return adhoc.ErrNotPending
		}
		if err := request.ReplaceItems(items, cmd.Notes); err != nil {
			return err
		}
		if err := uc.requestRepo.Update(ctx, request); err != nil {
			return err
		}
		return uc.requestRepo.ReplaceItems(ctx, request)
	})
	if err != nil {
		uc.logger.Warnw("failed to update adhoc request", "request_id", cmd.RequestID, "error", err)
		return nil, mapAdhocError(err)
	}

	uc.logger.Infow("adhoc request updated",
		"request_id", request.ID(),
		"items", len(items),
		"estimated_cost", request.EstimatedCost().StringFixed(2),
	)
	return request, nil
}
