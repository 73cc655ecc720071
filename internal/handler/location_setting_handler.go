package handler

import (
	"log"

	"absensi-backend/internal/helper"
	"absensi-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type LocationSettingHandler struct {
	uc  *usecase.LocationUsecase
	log *log.Logger
}

func NewLocationSettingHandler(uc *usecase.LocationUsecase, l *log.Logger) *LocationSettingHandler {
	return &LocationSettingHandler{uc: uc, log: l}
}

func (h *LocationSettingHandler) GetAll(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Data lokasi absen", list)
}

// Create: titik pusat, radius (meter), jam masuk/pulang "HH:MM", tanggal opsional.
func (h *LocationSettingHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateLocationInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	setting, err := h.uc.Create(c.UserContext(), req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Lokasi absen berhasil ditambahkan", setting)
}
