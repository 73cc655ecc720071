package routes

import (
	"absensi-backend/internal/handler"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewDashboardHandler(c.Reports, c.Log)

	api := app.Group("/api/admin/dashboard", middleware.Auth(c.Auth, c.Log), middleware.Role(c.Log, model.RoleAdmin))
	api.Get("/", hdl.GetAdminDashboard)
}
