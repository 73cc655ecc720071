package middleware

import (
	"context"
	"log"
	"strings"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/auth"
	"absensi-backend/internal/helper"

	"github.com/gofiber/fiber/v2"
)

// AccessCookie adalah nama cookie yang diset saat login.
const AccessCookie = "access_token"

const claimsKey = "claims"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

func Auth(a Authenticator, l *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Ambil token dari header Authorization, fallback ke cookie
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			tokenString = c.Cookies(AccessCookie)
		}
		if tokenString == "" {
			return helper.Fail(c, l, apperror.Auth(apperror.CodeUnauthenticated, "Token tidak ditemukan"))
		}

		// 2. Validasi token + cek daftar logout
		claims, err := a.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return helper.Fail(c, l, err)
		}

		// 3. Simpan claims ke context agar bisa dipakai handler
		c.Locals(claimsKey, claims)
		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// Claims mengembalikan identitas yang diset Auth, nil jika route tidak dilindungi.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

func UserID(c *fiber.Ctx) uint {
	if claims := Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
