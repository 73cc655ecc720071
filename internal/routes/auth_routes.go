package routes

import (
	"absensi-backend/internal/handler"
	"absensi-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewAuthHandler(c.Auth, c.Config.CookieSecure, c.Log)
	authenticated := middleware.Auth(c.Auth, c.Log)

	api := app.Group("/api/auth")
	api.Post("/login", middleware.LoginRateLimiter(), hdl.Login)
	api.Post("/logout", authenticated, hdl.Logout)
	api.Post("/forgot-password", middleware.ForgotPasswordRateLimiter(), hdl.ForgotPassword)
	api.Get("/reset-password/:token", hdl.VerifyResetToken)
	api.Post("/reset-password/:token", hdl.ResetPassword)

	app.Put("/api/me/password", authenticated, hdl.ChangePassword)
}
