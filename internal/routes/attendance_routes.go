package routes

import (
	"absensi-backend/internal/handler"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewAttendanceHandler(c.Attendance, c.Reports, c.Log)

	// Grouping route khusus absensi
	api := app.Group("/api/attendance", middleware.Auth(c.Auth, c.Log))
	attend := middleware.Permission(c.Log, model.CapAttend)

	api.Get("/dashboard", attend, hdl.Dashboard)
	api.Post("/clock-in", attend, hdl.ClockIn)
	api.Post("/clock-out", attend, hdl.ClockOut)
	api.Post("/leave", attend, hdl.Leave)
	api.Post("/location-check", attend, hdl.LocationCheck)
	api.Get("/today", attend, hdl.Today)
	api.Get("/recap", middleware.Permission(c.Log, model.CapViewOwnRecap), hdl.Recap)
}
