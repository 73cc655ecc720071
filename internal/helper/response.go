package helper

import (
	"errors"
	"log"

	"absensi-backend/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// Success Response tanpa custom code (default 200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// Success Response dengan custom code (contoh 201 untuk created)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	body := fiber.Map{"message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(code).JSON(body)
}

// Fail memetakan error use case ke status HTTP. Error storage dicatat lengkap
// tapi client hanya menerima pesan umum.
func Fail(c *fiber.Ctx, l *log.Logger, err error) error {
	if appErr := apperror.As(err); appErr != nil {
		if appErr.Kind == apperror.KindStorage {
			l.Printf("[ERROR] %s %s request_id=%v: %v", c.Method(), c.Path(), c.Locals(RequestIDKey), err)
		}
		body := fiber.Map{
			"error": appErr.PublicMessage(),
			"code":  appErr.Code,
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return c.Status(appErr.HTTPStatus()).JSON(body)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	l.Printf("[ERROR] %s %s request_id=%v: %v", c.Method(), c.Path(), c.Locals(RequestIDKey), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": apperror.StorageMessage,
		"code":  apperror.CodeStorage,
	})
}

// ErrorHandler untuk fiber.Config: panic (via recover) dan *fiber.Error keluar dengan format yang sama.
func ErrorHandler(l *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return Fail(c, l, err)
	}
}

// RequestIDKey adalah key c.Locals untuk request id.
const RequestIDKey = "request_id"
