package utils

import (
	"fmt"

	"dsatracker/backend/config"
	"dsatracker/backend/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens Postgres when DATABASE_URL is set, the SQLite file otherwise,
// and migrates every model.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.UsesPostgres() {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := OpenDB(dialector)
	if err != nil {
		return nil, err
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("database ready")
	return db, nil
}

// OpenDB connects with the given dialector and runs AutoMigrate.
func OpenDB(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
