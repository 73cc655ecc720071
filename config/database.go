package config

import (
	"fmt"
	"log"

	"absensi-backend/internal/logger"
	"absensi-backend/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB membuka koneksi sesuai DB_DRIVER lalu menjalankan AutoMigrate.
func ConnectDB(cfg DatabaseConfig, l *log.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("DB_DRIVER tidak dikenal: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(l, cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// SQLite hanya satu penulis; satu koneksi menghindari "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	l.Printf("database connected driver=%s", cfg.Driver)
	return db, nil
}

// Migrate: membuat tabel otomatis berdasarkan struct di folder model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Employee{},
		&model.Attendance{},
		&model.LocationSetting{},
		&model.RevokedToken{},
	)
}
