package handler

import (
	"io"
	"strconv"
	"strings"

	"absensi-backend/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.ValidationFields("Validasi gagal", map[string]string{"id": "harus berupa angka"})
	}
	return uint(id), nil
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON)
}

// parseBody membaca JSON atau form (urlencoded / multipart) ke struct yang sama.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 && !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Format data salah")
	}
	return nil
}

// formFloat: nilai kosong menjadi nil supaya validator "required" yang menolak.
func formFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.ValidationFields("Validasi gagal", map[string]string{key: "harus berupa angka"})
	}
	return &v, nil
}

// coords membaca latitude/longitude dari JSON atau form.
func coords(c *fiber.Ctx) (lat, lng *float64, err error) {
	if isJSON(c) {
		var body struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := parseBody(c, &body); err != nil {
			return nil, nil, err
		}
		return body.Latitude, body.Longitude, nil
	}
	if lat, err = formFloat(c, "latitude"); err != nil {
		return nil, nil, err
	}
	if lng, err = formFloat(c, "longitude"); err != nil {
		return nil, nil, err
	}
	return lat, lng, nil
}

// formPhoto membuka file upload; nil jika field tidak dikirim.
func formPhoto(c *fiber.Ctx, field string) (io.ReadCloser, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return f, nil
}
