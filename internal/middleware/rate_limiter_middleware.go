package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func newLimiter(limit int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": message,
				"code":  "RATE_LIMITED",
			})
		},
	})
}

// GlobalRateLimiter untuk seluruh /api.
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(120, time.Minute, "Terlalu banyak permintaan. Silakan coba lagi nanti.")
}

// Rate limiter untuk login (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(10, time.Minute, "Terlalu banyak percobaan login. Coba beberapa saat lagi.")
}

func ForgotPasswordRateLimiter() fiber.Handler {
	return newLimiter(3, 10*time.Minute, "Terlalu banyak permintaan reset password. Silakan coba lagi dalam 10 menit.")
}
