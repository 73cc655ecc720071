package middleware

import (
	"log"

	"absensi-backend/internal/helper"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID memakai header dari client jika ada, selain itu membuat uuid baru.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Locals(helper.RequestIDKey, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// AccessLog menulis satu baris per request ke logger proses.
func AccessLog(l *log.Logger) fiber.Handler {
	return fiberlogger.New(fiberlogger.Config{
		Output:     l.Writer(),
		Format:     "${time} [HTTP] ${status} ${method} ${path} ${latency} request_id=${locals:request_id}\n",
		TimeFormat: "2006/01/02 15:04:05",
	})
}

// Recovery menangkap panic; error diteruskan ke ErrorHandler aplikasi.
func Recovery() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
	})
}
