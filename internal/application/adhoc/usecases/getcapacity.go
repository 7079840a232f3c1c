package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/application/adhoc/dto"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// MaxCapacityRangeDays bounds one capacity query.
const MaxCapacityRangeDays = 93

type GetCapacityQuery struct {
	StartDate time.Time
	EndDate   time.Time
}

type GetCapacityUseCase struct {
	ledger   *CapacityLedger
	settings setting.SettingProvider
	logger   logger.Interface
}

func NewGetCapacityUseCase(ledger *CapacityLedger, settings setting.SettingProvider, logger logger.Interface) *GetCapacityUseCase {
	return &GetCapacityUseCase{ledger: ledger, settings: settings, logger: logger}
}

func (uc *GetCapacityUseCase) Execute(ctx context.Context, query GetCapacityQuery) ([]dto.CapacityDTO, error) {
	rng, err := schedule.NewDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error()).WithCause(err)
	}
	if rng.Days() > MaxCapacityRangeDays {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("date range cannot exceed %d days", MaxCapacityRangeDays))
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	capacities, err := uc.ledger.Snapshot(ctx, rng, settings.DefaultCapacity)
	if err != nil {
		uc.logger.Errorw("failed to load capacity", "range", rng.String(), "error", err)
		return nil, err
	}
	return dto.ToCapacityDTOs(capacities), nil
}
