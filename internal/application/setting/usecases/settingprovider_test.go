package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/domain/setting"
	sharedConfig "github.com/milkrun/milkrun/internal/shared/config"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

func stored(key, value string) *setting.SystemSetting {
	return setting.ReconstructSystemSetting(1, setting.CategoryBusiness, key, value, setting.KeyTypes[key], "", 1, time.Time{}, time.Time{})
}

func TestSettingProvider_DefaultsAndConfigFallback(t *testing.T) {
	p := NewSettingProvider(&mockSettingRepository{}, sharedConfig.BusinessConfig{
		DefaultCapacity: 80,
		TaxPercentage:   5,
	}, nil, logger.NewNopLogger())

	s, err := p.BusinessSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80, s.DefaultCapacity)
	assert.True(t, s.TaxPercentage.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 1, s.MinAdvanceDays)
	assert.Equal(t, 30, s.MaxAdvanceDays)
	assert.Equal(t, 12, s.CancelBeforeHours)
}

func TestSettingProvider_DatabaseOverrides(t *testing.T) {
	repo := &mockSettingRepository{
		GetByCategoryFunc: func(_ context.Context, category string) ([]*setting.SystemSetting, error) {
			assert.Equal(t, setting.CategoryBusiness, category)
			return []*setting.SystemSetting{
				stored(setting.KeyAdhocDefaultCapacity, "20"),
				stored(setting.KeyBillingTaxPercentage, "2.5"),
				stored(setting.KeyAdhocMaxAdvanceDays, "not-a-number"),
				stored(setting.KeyBillingDueDays, ""),
			}, nil
		},
	}
	p := NewSettingProvider(repo, sharedConfig.BusinessConfig{DefaultCapacity: 80}, nil, logger.NewNopLogger())

	s, err := p.BusinessSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, s.DefaultCapacity)
	assert.True(t, s.TaxPercentage.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 30, s.MaxAdvanceDays)
	assert.Equal(t, 7, s.BillDueDays)
}

func TestSettingProvider_DatabaseErrorFallsBack(t *testing.T) {
	repo := &mockSettingRepository{
		GetByCategoryFunc: func(context.Context, string) ([]*setting.SystemSetting, error) {
			return nil, errors.New("connection refused")
		},
	}
	p := NewSettingProvider(repo, sharedConfig.BusinessConfig{}, nil, logger.NewNopLogger())

	s, err := p.BusinessSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, setting.DefaultBusinessSettings().DefaultCapacity, s.DefaultCapacity)
}

func TestSettingProvider_UsesCache(t *testing.T) {
	calls := 0
	repo := &mockSettingRepository{
		GetByCategoryFunc: func(context.Context, string) ([]*setting.SystemSetting, error) {
			calls++
			return nil, nil
		},
	}
	cache := &memorySettingsCache{}
	p := NewSettingProvider(repo, sharedConfig.BusinessConfig{}, cache, logger.NewNopLogger())

	_, err := p.BusinessSettings(context.Background())
	require.NoError(t, err)
	_, err = p.BusinessSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, cache.value)
}

func TestUpdateSettingUseCase(t *testing.T) {
	var saved *setting.SystemSetting
	repo := &mockSettingRepository{
		UpsertFunc: func(_ context.Context, s *setting.SystemSetting) error {
			saved = s
			return nil
		},
	}
	cache := &memorySettingsCache{value: &setting.BusinessSettings{}}
	uc := NewUpdateSettingUseCase(repo, cache, logger.NewNopLogger())

	require.NoError(t, uc.Execute(context.Background(), UpdateSettingCommand{Key: setting.KeyAdhocDefaultCapacity, Value: "75"}))
	require.NotNil(t, saved)
	assert.Equal(t, "75", saved.Value())
	assert.Equal(t, setting.ValueTypeInt, saved.ValueType())
	assert.Nil(t, cache.value)
	assert.Equal(t, 1, cache.invalidated)

	err := uc.Execute(context.Background(), UpdateSettingCommand{Key: "unknown.key", Value: "1"})
	assert.True(t, apperrors.IsValidationError(err))

	err = uc.Execute(context.Background(), UpdateSettingCommand{Key: setting.KeyBillingTaxPercentage, Value: "abc"})
	assert.True(t, apperrors.IsValidationError(err))
}
