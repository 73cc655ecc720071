package middleware

import (
	"log"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/helper"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Permission mengecek kapabilitas role dari token. Tabel kapabilitas ada di model.Role.Can.
func Permission(l *log.Logger, required model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return helper.Fail(c, l, apperror.Auth(apperror.CodeUnauthenticated, "Token tidak ditemukan"))
		}

		if !claims.Role.Can(required) {
			return helper.Fail(c, l, apperror.Forbidden("Akses ditolak: Anda tidak memiliki izin "+string(required)))
		}

		return c.Next()
	}
}
