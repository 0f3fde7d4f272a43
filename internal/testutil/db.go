package testutil

import (
	"path/filepath"
	"testing"

	"mobilya-backend/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB: Geçici dosya üzerinde sqlite açar ve tüm tabloları migrate eder.
// Dosya tabanlı DB + busy_timeout, eşzamanlılık testlerinde birden fazla
// bağlantının aynı tabloya yazabilmesi için gerekli.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}

	return db
}
