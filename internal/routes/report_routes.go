package routes

import (
	"absensi-backend/internal/handler"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewReportHandler(c.Reports, c.Log)

	api := app.Group("/api/admin/reports", middleware.Auth(c.Auth, c.Log), middleware.Permission(c.Log, model.CapViewReports))
	api.Get("/attendance", hdl.GetAttendanceReport)
}
