package usecases

import (
	"context"

	"github.com/milkrun/milkrun/internal/domain/setting"
)

type mockSettingRepository struct {
	GetByKeyFunc      func(ctx context.Context, category, key string) (*setting.SystemSetting, error)
	GetByCategoryFunc func(ctx context.Context, category string) ([]*setting.SystemSetting, error)
	UpsertFunc        func(ctx context.Context, s *setting.SystemSetting) error
	DeleteFunc        func(ctx context.Context, category, key string) error
}

func (m *mockSettingRepository) GetByKey(ctx context.Context, category, key string) (*setting.SystemSetting, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, category, key)
	}
	return nil, nil
}

func (m *mockSettingRepository) GetByCategory(ctx context.Context, category string) ([]*setting.SystemSetting, error) {
	if m.GetByCategoryFunc != nil {
		return m.GetByCategoryFunc(ctx, category)
	}
	return nil, nil
}

func (m *mockSettingRepository) Upsert(ctx context.Context, s *setting.SystemSetting) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

func (m *mockSettingRepository) Delete(ctx context.Context, category, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, category, key)
	}
	return nil
}

type memorySettingsCache struct {
	value       *setting.BusinessSettings
	invalidated int
}

func (c *memorySettingsCache) GetBusinessSettings(context.Context) (*setting.BusinessSettings, error) {
	return c.value, nil
}

func (c *memorySettingsCache) SetBusinessSettings(_ context.Context, s setting.BusinessSettings) error {
	c.value = &s
	return nil
}

func (c *memorySettingsCache) Invalidate(context.Context) error {
	c.value = nil
	c.invalidated++
	return nil
}
