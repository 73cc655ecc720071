package routes

import (
	"log"

	"absensi-backend/config"
	"absensi-backend/internal/auth"
	"absensi-backend/internal/geofence"
	"absensi-backend/internal/mailer"
	"absensi-backend/internal/repository"
	"absensi-backend/internal/storage"
	"absensi-backend/internal/usecase"

	"gorm.io/gorm"
)

// Container menyimpan use case yang sudah dirakit; dibuat sekali di main.
type Container struct {
	DB     *gorm.DB
	Config config.Config
	Log    *log.Logger

	Auth       *usecase.AuthUsecase
	Employees  *usecase.EmployeeUsecase
	Attendance *usecase.AttendanceUsecase
	Reports    *usecase.ReportUsecase
	Locations  *usecase.LocationUsecase
}

func NewContainer(db *gorm.DB, cfg config.Config, photos storage.PhotoStore, m mailer.Mailer, l *log.Logger) *Container {
	loc := cfg.Location()

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	locationRepo := repository.NewLocationSettingRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.ResetTokenTTL)
	locations := usecase.NewLocationUsecase(locationRepo)

	return &Container{
		DB:     db,
		Config: cfg,
		Log:    l,

		Auth:      usecase.NewAuthUsecase(userRepo, tokenRepo, tokens, m, cfg.PublicBaseURL, l),
		Employees: usecase.NewEmployeeUsecase(db, userRepo, employeeRepo, photos, l),
		Attendance: usecase.NewAttendanceUsecase(db, attendanceRepo, employeeRepo, locations, photos, usecase.AttendanceConfig{
			Geofence:          geofence.Validator{EarlyTolerance: cfg.GeofenceEarly, LateTolerance: cfg.GeofenceLate},
			EnforceOnClockOut: cfg.GeofenceEnforceOnClose,
			Location:          loc,
		}, l),
		Reports:   usecase.NewReportUsecase(attendanceRepo, employeeRepo, dashboardRepo, loc),
		Locations: locations,
	}
}
