package logger

import (
	"io"
	"log"
	"os"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// New membuat logger proses. Dipanggil sekali di main lalu di-inject ke komponen lain.
func New(appName string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stdout
	}
	return log.New(out, "["+appName+"] ", log.LstdFlags|log.Lmicroseconds)
}

// Discard dipakai di test.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// Gorm mengikat logger SQL GORM ke logger proses yang sama.
func Gorm(l *log.Logger, level string) gormlogger.Interface {
	return gormlogger.New(l, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  parseGormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
