package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/junaidrashid-git/adega-api/config"
	"github.com/junaidrashid-git/adega-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the configured database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == "sqlite" {
		// a single connection keeps sqlite writers from tripping over each other
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Printf("✅ Connected to %s database", cfg.DBDriver)
	return db, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Item{},
		&models.Highlight{},
		&models.StoreSettings{},
		&models.PaymentSettings{},
		&models.Order{},
	)
}
