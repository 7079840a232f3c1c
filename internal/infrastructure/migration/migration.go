package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/shared/config"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// ErrNotVersioned is returned for down/status requests against a strategy
// without version tracking.
var ErrNotVersioned = fmt.Errorf("migration strategy does not track versions")

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for MySQL and AutoMigrate for SQLite.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	var strategy Strategy
	if cfg.IsSQLite() {
		strategy = NewGormAutoMigrateStrategy()
	} else {
		strategy = NewGooseStrategy()
	}
	return NewManagerWithStrategy(strategy)
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Down(ctx context.Context, db *gorm.DB, steps int) error {
	v, ok := m.strategy.(Versioned)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotVersioned, m.strategy.GetName())
	}
	return v.MigrateDown(ctx, db, steps)
}

func (m *Manager) Status(ctx context.Context, db *gorm.DB) error {
	v, ok := m.strategy.(Versioned)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotVersioned, m.strategy.GetName())
	}
	return v.Status(ctx, db)
}

// Version returns the applied version, or 0 for unversioned strategies.
func (m *Manager) Version(ctx context.Context, db *gorm.DB) (int64, error) {
	v, ok := m.strategy.(Versioned)
	if !ok {
		return 0, nil
	}
	return v.GetVersion(ctx, db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// GetStrategyInfo returns information about the current strategy
func (m *Manager) GetStrategyInfo() map[string]interface{} {
	return map[string]interface{}{
		"name":        m.strategy.GetName(),
		"description": getStrategyDescription(m.strategy.GetName()),
	}
}

func getStrategyDescription(strategyName string) string {
	switch strategyName {
	case "gorm_auto_migrate":
		return "GORM AutoMigrate - schema derived from the model definitions"
	case "goose":
		return "goose - versioned SQL scripts embedded in the binary"
	default:
		return "Unknown migration strategy"
	}
}
