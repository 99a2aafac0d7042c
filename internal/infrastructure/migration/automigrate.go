package migration

import (
	"fmt"

	"gorm.io/gorm"

	"authrelay/internal/infrastructure/persistence/models"
	"authrelay/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the model structs.
// Suitable for development; versioned scripts drive test and production.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, extra ...interface{}) error {
	targets := append(AutoMigrateModels(), extra...)

	s.logger.Infow("running gorm auto-migration", "models", len(targets))

	if err := db.AutoMigrate(targets...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// AutoMigrateModels lists every persisted model in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.AppModel{},
		&models.AppUsageModel{},
		&models.SessionModel{},
	}
}
