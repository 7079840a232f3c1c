package setting

import (
	"context"
)

// Repository defines the interface for system setting persistence
type Repository interface {
	// GetByKey returns nil, nil when the setting does not exist.
	GetByKey(ctx context.Context, category, key string) (*SystemSetting, error)

	GetByCategory(ctx context.Context, category string) ([]*SystemSetting, error)

	// Upsert creates or updates a setting by (category, key).
	Upsert(ctx context.Context, setting *SystemSetting) error

	Delete(ctx context.Context, category, key string) error
}
