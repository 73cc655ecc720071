package handler

import (
	"log"

	"absensi-backend/internal/helper"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	uc  *usecase.EmployeeUsecase
	log *log.Logger
}

func NewEmployeeHandler(uc *usecase.EmployeeUsecase, l *log.Logger) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, log: l}
}

// GetAll: daftar pegawai, opsional ?search= nama/no hp
func (h *EmployeeHandler) GetAll(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.Query("search"))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Data pegawai", list)
}

func (h *EmployeeHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	emp, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Detail pegawai", emp)
}

func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateEmployeeInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	emp, err := h.uc.Create(c.UserContext(), req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Pegawai berhasil ditambahkan", emp)
}

func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	var req usecase.UpdateEmployeeInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	emp, err := h.uc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Data pegawai berhasil diupdate", emp)
}

func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	res, err := h.uc.DeleteEmployee(c.UserContext(), id)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Pegawai berhasil dihapus", res)
}

// DeleteUser menghapus akun beserta seluruh data turunannya.
func (h *EmployeeHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	res, err := h.uc.DeleteUser(c.UserContext(), id)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "User berhasil dihapus", res)
}

func (h *EmployeeHandler) Me(c *fiber.Ctx) error {
	profile, err := h.uc.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Profil", profile)
}

// UpdateProfile: multipart (phone_number, gender, photo) atau JSON tanpa foto.
func (h *EmployeeHandler) UpdateProfile(c *fiber.Ctx) error {
	var req usecase.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	photo, err := formPhoto(c, "photo")
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	if photo != nil {
		defer photo.Close()
		req.Photo = photo
	}

	emp, err := h.uc.UpdateProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Profil berhasil diupdate", emp)
}
