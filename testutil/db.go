// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/junaidrashid-git/adega-api/database"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to ":memory:" is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Base is a fixed instant tests build timestamps from.
var Base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// SeedItem inserts an item created n seconds after Base.
func SeedItem(t *testing.T, db *gorm.DB, title, price, categoryID string, n int) models.Item {
	t.Helper()
	item := models.Item{
		Title:      title,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		ImageURL:   "https://img.example/" + title + ".png",
		CreatedAt:  Base.Add(time.Duration(n) * time.Second),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

// SeedCategory inserts a category.
func SeedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}
