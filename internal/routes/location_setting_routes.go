package routes

import (
	"absensi-backend/internal/handler"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupLocationSettingRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewLocationSettingHandler(c.Locations, c.Log)

	api := app.Group("/api/admin/location-settings", middleware.Auth(c.Auth, c.Log), middleware.Permission(c.Log, model.CapManageLocations))
	api.Get("/", hdl.GetAll)
	api.Post("/", hdl.Create)
}
