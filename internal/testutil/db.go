package testutil

import (
	"fmt"
	"strings"
	"testing"

	"absensi-backend/config"
	"absensi-backend/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())

	db, err := config.ConnectDB(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"}, logger.Discard())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
