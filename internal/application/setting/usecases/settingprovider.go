package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/setting"
	sharedConfig "github.com/milkrun/milkrun/internal/shared/config"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// SettingsCache stores the resolved business settings between operations.
type SettingsCache interface {
	// GetBusinessSettings returns nil, nil on a miss.
	GetBusinessSettings(ctx context.Context) (*setting.BusinessSettings, error)
	SetBusinessSettings(ctx context.Context, s setting.BusinessSettings) error
	Invalidate(ctx context.Context) error
}

// SettingProvider resolves business settings with database-first,
// config-fallback logic. The cache is optional.
type SettingProvider struct {
	settingRepo setting.Repository
	fallback    setting.BusinessSettings
	cache       SettingsCache
	logger      logger.Interface
}

var _ setting.SettingProvider = (*SettingProvider)(nil)

// NewSettingProvider creates a new SettingProvider
func NewSettingProvider(
	settingRepo setting.Repository,
	cfg sharedConfig.BusinessConfig,
	cache SettingsCache,
	logger logger.Interface,
) *SettingProvider {
	return &SettingProvider{
		settingRepo: settingRepo,
		fallback:    FallbackFromConfig(cfg),
		cache:       cache,
		logger:      logger,
	}
}

// FallbackFromConfig maps configuration onto the defaults; unset (zero)
// values keep the built-in default.
func FallbackFromConfig(cfg sharedConfig.BusinessConfig) setting.BusinessSettings {
	s := setting.DefaultBusinessSettings()
	if cfg.MinAdvanceDays > 0 {
		s.MinAdvanceDays = cfg.MinAdvanceDays
	}
	if cfg.MaxAdvanceDays > 0 {
		s.MaxAdvanceDays = cfg.MaxAdvanceDays
	}
	if cfg.DefaultCapacity > 0 {
		s.DefaultCapacity = cfg.DefaultCapacity
	}
	if cfg.CancelBeforeHours > 0 {
		s.CancelBeforeHours = cfg.CancelBeforeHours
	}
	if cfg.TaxPercentage > 0 {
		s.TaxPercentage = decimal.NewFromFloat(cfg.TaxPercentage)
	}
	if cfg.BillDueDays > 0 {
		s.BillDueDays = cfg.BillDueDays
	}
	if cfg.MaxPauseDays > 0 {
		s.MaxPauseDays = cfg.MaxPauseDays
	}
	if cfg.LookaheadDays > 0 {
		s.LookaheadDays = cfg.LookaheadDays
	}
	return s
}

// BusinessSettings returns the effective settings. A database failure is
// logged and the fallback values are used.
func (p *SettingProvider) BusinessSettings(ctx context.Context) (setting.BusinessSettings, error) {
	if p.cache != nil {
		cached, err := p.cache.GetBusinessSettings(ctx)
		if err != nil {
			p.logger.Warnw("failed to read business settings cache", "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	settings, err := p.settingRepo.GetByCategory(ctx, setting.CategoryBusiness)
	if err != nil {
		p.logger.Warnw("failed to get business settings from database, using config fallback",
			"error", err,
		)
		return p.fallback, nil
	}

	resolved := p.fallback
	for _, s := range settings {
		if !s.HasValue() {
			continue
		}
		if err := applySetting(&resolved, s); err != nil {
			p.logger.Warnw("ignoring invalid business setting",
				"key", s.Key(),
				"value", s.Value(),
				"error", err,
			)
		}
	}

	if p.cache != nil {
		if err := p.cache.SetBusinessSettings(ctx, resolved); err != nil {
			p.logger.Warnw("failed to cache business settings", "error", err)
		}
	}
	return resolved, nil
}

func applySetting(dst *setting.BusinessSettings, s *setting.SystemSetting) error {
	if s.Key() == setting.KeyBillingTaxPercentage {
		v, err := s.GetDecimalValue()
		if err != nil {
			return err
		}
		if v.IsNegative() {
			return fmt.Errorf("tax percentage cannot be negative")
		}
		dst.TaxPercentage = v
		return nil
	}

	target := intTarget(dst, s.Key())
	if target == nil {
		return fmt.Errorf("%w: %s", setting.ErrInvalidSettingKey, s.Key())
	}
	v, err := s.GetIntValue()
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("value cannot be negative")
	}
	*target = v
	return nil
}

func intTarget(dst *setting.BusinessSettings, key string) *int {
	switch key {
	case setting.KeyAdhocMinAdvanceDays:
		return &dst.MinAdvanceDays
	case setting.KeyAdhocMaxAdvanceDays:
		return &dst.MaxAdvanceDays
	case setting.KeyAdhocDefaultCapacity:
		return &dst.DefaultCapacity
	case setting.KeyAdhocCancelBeforeHours:
		return &dst.CancelBeforeHours
	case setting.KeyBillingDueDays:
		return &dst.BillDueDays
	case setting.KeyMaxPauseDays:
		return &dst.MaxPauseDays
	case setting.KeyScheduleLookaheadDays:
		return &dst.LookaheadDays
	default:
		return nil
	}
}
