package usecase

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// pakai nama field json di pesan error
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateLayout, fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	return v
}

var fieldMessages = map[string]string{
	"required":  "wajib diisi",
	"email":     "format email tidak valid",
	"min":       "terlalu pendek",
	"max":       "terlalu panjang",
	"oneof":     "nilai tidak diizinkan",
	"gte":       "nilai terlalu kecil",
	"lte":       "nilai terlalu besar",
	"latitude":  "latitude tidak valid",
	"longitude": "longitude tidak valid",
	"date":      "format tanggal harus YYYY-MM-DD",
	"hhmm":      "format jam harus HH:MM",
}

// validateStruct mengubah validator.ValidationErrors menjadi ValidationError per field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.Validation("Data tidak valid")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = fe.Tag()
		}
		fields[fe.Field()] = msg
	}
	return apperror.ValidationFields("Validasi gagal", fields)
}
