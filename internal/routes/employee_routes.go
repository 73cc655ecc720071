package routes

import (
	"absensi-backend/internal/handler"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupEmployeeRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewEmployeeHandler(c.Employees, c.Log)
	authenticated := middleware.Auth(c.Auth, c.Log)

	// Profile Routes (Protected)
	app.Get("/api/me", authenticated, hdl.Me)
	app.Put("/api/me/profile", authenticated, hdl.UpdateProfile)

	// Admin Routes (Kelola Pegawai)
	manage := middleware.Permission(c.Log, model.CapManageEmployees)
	admin := app.Group("/api/admin/employees", authenticated, manage)
	admin.Get("/", hdl.GetAll)
	admin.Post("/", hdl.Create)
	admin.Get("/:id", hdl.GetByID)
	admin.Put("/:id", hdl.Update)
	admin.Delete("/:id", hdl.Delete)

	app.Delete("/api/admin/users/:id", authenticated, manage, hdl.DeleteUser)
}
