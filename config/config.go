package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppName       string
	Port          string
	Timezone      string
	PublicBaseURL string

	DB DatabaseConfig

	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	CookieSecure   bool

	UploadDir      string
	UploadMaxBytes int
	PhotoMaxDim    int

	SMTP SMTPConfig

	GeofenceEarly          time.Duration
	GeofenceLate           time.Duration
	GeofenceEnforceOnClose bool

	ReaperSchedule string
	ReaperGrace    time.Duration
}

type DatabaseConfig struct {
	Driver       string // mysql | postgres | sqlite
	DSN          string
	MaxOpenConns int
	LogLevel     string // silent | error | warn | info
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load membaca konfigurasi dari environment (panggil godotenv.Load lebih dulu).
func Load() Config {
	return Config{
		AppName:       GetEnv("APP_NAME", "absensi-backend"),
		Port:          GetEnv("APP_PORT", "3000"),
		Timezone:      GetEnv("APP_TIMEZONE", "Asia/Jakarta"),
		PublicBaseURL: strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),

		DB: DatabaseConfig{
			Driver: GetEnv("DB_DRIVER", "mysql"),
			// Format mysql: user:password@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local
			DSN:          GetEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/absensi_db?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxOpenConns: GetEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			LogLevel:     GetEnv("DB_LOG_LEVEL", "warn"),
		},

		JWTSecret:      GetEnv("JWT_SECRET", "ganti-secret-ini"),
		AccessTokenTTL: time.Duration(GetEnvAsInt("ACCESS_TOKEN_TTL_HOURS", 24)) * time.Hour,
		ResetTokenTTL:  time.Duration(GetEnvAsInt("RESET_TOKEN_TTL_SECONDS", 600)) * time.Second,
		CookieSecure:   GetEnvAsBool("COOKIE_SECURE", false),

		UploadDir:      GetEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes: GetEnvAsInt("UPLOAD_MAX_MB", 16) * 1024 * 1024,
		PhotoMaxDim:    GetEnvAsInt("PHOTO_MAX_DIMENSION", 1280),

		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			Username: GetEnv("SMTP_USERNAME", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("SMTP_FROM", "no-reply@absensi.local"),
		},

		GeofenceEarly:          time.Duration(GetEnvAsInt("GEOFENCE_EARLY_MINUTES", 60)) * time.Minute,
		GeofenceLate:           time.Duration(GetEnvAsInt("GEOFENCE_LATE_MINUTES", 240)) * time.Minute,
		GeofenceEnforceOnClose: GetEnvAsBool("GEOFENCE_ENFORCE_CLOCK_OUT", false),

		ReaperSchedule: GetEnv("REAPER_SCHEDULE", "15 2 * * *"),
		ReaperGrace:    time.Duration(GetEnvAsInt("REAPER_GRACE_MINUTES", 60)) * time.Minute,
	}
}

// Location mengembalikan zona waktu aplikasi, fallback ke Local.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(GetEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
