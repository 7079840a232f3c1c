package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type UpdateSettingCommand struct {
	Key   string
	Value string
}

// UpdateSettingUseCase stores one business setting and drops the cached snapshot.
type UpdateSettingUseCase struct {
	settingRepo setting.Repository
	cache       SettingsCache
	logger      logger.Interface
}

func NewUpdateSettingUseCase(settingRepo setting.Repository, cache SettingsCache, logger logger.Interface) *UpdateSettingUseCase {
	return &UpdateSettingUseCase{
		settingRepo: settingRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *UpdateSettingUseCase) Execute(ctx context.Context, cmd UpdateSettingCommand) error {
	valueType, ok := setting.KeyTypes[cmd.Key]
	if !ok {
		return errors.NewValidationError("unknown setting key", cmd.Key)
	}

	s, err := uc.settingRepo.GetByKey(ctx, setting.CategoryBusiness, cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to get setting: %w", err)
	}
	if s == nil {
		s, err = setting.NewSystemSetting(setting.CategoryBusiness, cmd.Key, valueType, "")
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
	}

	if err := s.SetValue(cmd.Value); err != nil {
		return errors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := uc.settingRepo.Upsert(ctx, s); err != nil {
		uc.logger.Errorw("failed to save setting", "key", cmd.Key, "error", err)
		return fmt.Errorf("failed to save setting: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate settings cache", "error", err)
		}
	}

	uc.logger.Infow("business setting updated", "key", cmd.Key, "value", cmd.Value)
	return nil
}
