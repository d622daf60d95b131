package database

import (
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ragequitlabs/ragewatch/internal/account"
)

func TestApplyMigrationsClampsRageEventIntensity(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "migration.db")

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}

	if err := database.AutoMigrate(&account.RageEventRecord{}, &migrationRecord{}); err != nil {
		testContext.Fatalf("failed to migrate schema: %v", err)
	}

	rows := []account.RageEventRecord{
		{EventID: "event-low", VisitorID: "visitor-1", GameID: 7, Intensity: 0, CreatedAt: time.Unix(1000, 0)},
		{EventID: "event-high", VisitorID: "visitor-1", GameID: 7, Intensity: 9, CreatedAt: time.Unix(1001, 0)},
		{EventID: "event-ok", VisitorID: "visitor-1", GameID: 7, Intensity: 3, CreatedAt: time.Unix(1002, 0)},
	}
	for _, row := range rows {
		if err := database.Create(&row).Error; err != nil {
			testContext.Fatalf("failed to insert event %s: %v", row.EventID, err)
		}
	}

	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("failed to apply migrations: %v", err)
	}

	expected := map[string]int{"event-low": 1, "event-high": 5, "event-ok": 3}
	for eventID, intensity := range expected {
		var stored account.RageEventRecord
		if err := database.Where("event_id = ?", eventID).Take(&stored).Error; err != nil {
			testContext.Fatalf("failed to reload event %s: %v", eventID, err)
		}
		if stored.Intensity != intensity {
			testContext.Fatalf("event %s: expected intensity %d, got %d", eventID, intensity, stored.Intensity)
		}
	}

	var record migrationRecord
	if err := database.Where("name = ?", migrationClampRageEventIntensity).Take(&record).Error; err != nil {
		testContext.Fatalf("expected migration record to be created: %v", err)
	}
	if record.AppliedAtSeconds == 0 {
		testContext.Fatalf("expected migration timestamp to be set")
	}
}

func TestApplyMigrationsIsIdempotent(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "migration.db")

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&account.RageEventRecord{}, &migrationRecord{}); err != nil {
		testContext.Fatalf("failed to migrate schema: %v", err)
	}

	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("first apply failed: %v", err)
	}
	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("second apply failed: %v", err)
	}

	var count int64
	if err := database.Model(&migrationRecord{}).Count(&count).Error; err != nil {
		testContext.Fatalf("failed to count migration records: %v", err)
	}
	if count != 1 {
		testContext.Fatalf("expected one migration record, got %d", count)
	}
}
