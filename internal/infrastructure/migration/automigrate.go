package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the GORM models. Used for
// the embedded SQLite database, which has no versioned scripts.
type GormAutoMigrateStrategy struct {
	models []interface{}
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		models: models.All(),
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	s.logger.Infow("running gorm auto migrate", "models_count", len(s.models))

	if err := db.WithContext(ctx).AutoMigrate(s.models...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
