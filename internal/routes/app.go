package routes

import (
	"absensi-backend/internal/helper"
	"absensi-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewApp merakit fiber.App lengkap: middleware global, static upload, dan semua route.
func NewApp(c *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      c.Config.AppName,
		BodyLimit:    c.Config.UploadMaxBytes,
		ErrorHandler: helper.ErrorHandler(c.Log),
	})

	// Middleware Global
	app.Use(middleware.Recovery())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(c.Log))
	app.Use(cors.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))

	// Serve Static Files (foto absensi bisa dibuka via /uploads/...)
	app.Static("/uploads", c.Config.UploadDir)

	SetupHealthRoutes(app, c)

	app.Use("/api", middleware.GlobalRateLimiter())
	SetupAuthRoutes(app, c)
	SetupEmployeeRoutes(app, c)
	SetupAttendanceRoutes(app, c)
	SetupDashboardRoutes(app, c)
	SetupReportRoutes(app, c)
	SetupLocationSettingRoutes(app, c)

	return app
}

func SetupHealthRoutes(app *fiber.App, c *Container) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		sqlDB, err := c.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.UserContext())
		}
		if err != nil {
			c.Log.Printf("[HEALTH] database tidak bisa dihubungi: %v", err)
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
}
