package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/application/adhoc/dto"
	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

// UpdateCapacitySettingsCommand edits one date. A nil MaxCapacity keeps the
// current maximum, so blocking a date does not pin it to today's default.
type UpdateCapacitySettingsCommand struct {
	Date        time.Time `validate:"required"`
	MaxCapacity *int      `validate:"omitempty,gte=0"`
	IsBlocked   bool
	BlockReason string `validate:"max=255"`
}

type UpdateCapacitySettingsUseCase struct {
	capacityRepo adhoc.CapacityRepository
	ledger       *CapacityLedger
	settings     setting.SettingProvider
	logger       logger.Interface
}

func NewUpdateCapacitySettingsUseCase(
	capacityRepo adhoc.CapacityRepository,
	ledger *CapacityLedger,
	settings setting.SettingProvider,
	logger logger.Interface,
) *UpdateCapacitySettingsUseCase {
	return &UpdateCapacitySettingsUseCase{
		capacityRepo: capacityRepo,
		ledger:       ledger,
		settings:     settings,
		logger:       logger,
	}
}

// Execute overwrites the admin fields of one date. The approved count is kept.
func (uc *UpdateCapacitySettingsUseCase) Execute(ctx context.Context, cmd UpdateCapacitySettingsCommand) (*dto.CapacityDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	c, err := uc.ledger.Get(ctx, cmd.Date, settings.DefaultCapacity)
	if err != nil {
		return nil, err
	}
	if err := c.ApplySettings(adhoc.CapacitySettings{
		MaxAdhocRequests: cmd.MaxCapacity,
		IsBlocked:        cmd.IsBlocked,
		BlockReason:      cmd.BlockReason,
	}); err != nil {
		return nil, mapAdhocError(err)
	}

	if err := uc.capacityRepo.SaveSettings(ctx, c); err != nil {
		uc.logger.Errorw("failed to save capacity settings", "date", cmd.Date, "error", err)
		return nil, fmt.Errorf("failed to save capacity settings: %w", err)
	}

	uc.logger.Infow("capacity settings updated",
		"date", c.Date(),
		"max_capacity", c.MaxAdhocRequests(),
		"is_blocked", c.IsBlocked(),
	)
	out := dto.ToCapacityDTO(c)
	return &out, nil
}
