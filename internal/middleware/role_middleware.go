package middleware

import (
	"log"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/helper"
	"absensi-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func Role(l *log.Logger, allowedRoles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Ambil role user dari context (diset di Auth middleware)
		claims := Claims(c)
		if claims == nil {
			return helper.Fail(c, l, apperror.Auth(apperror.CodeUnauthenticated, "Token tidak ditemukan"))
		}

		for _, role := range allowedRoles {
			if role == claims.Role {
				return c.Next()
			}
		}

		return helper.Fail(c, l, apperror.Forbidden("Akses ditolak: role "+claims.Role.String()+" tidak diizinkan"))
	}
}
