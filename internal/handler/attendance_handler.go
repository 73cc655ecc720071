package handler

import (
	"log"
	"strings"

	"absensi-backend/internal/geofence"
	"absensi-backend/internal/helper"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	uc      *usecase.AttendanceUsecase
	reports *usecase.ReportUsecase
	log     *log.Logger
}

func NewAttendanceHandler(uc *usecase.AttendanceUsecase, reports *usecase.ReportUsecase, l *log.Logger) *AttendanceHandler {
	return &AttendanceHandler{uc: uc, reports: reports, log: l}
}

// ClockIn: multipart latitude, longitude, photo.
func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	// 1. Ambil koordinat
	lat, lng, err := coords(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	// 2. Ambil foto
	photo, err := formPhoto(c, "photo")
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	req := usecase.ClockInInput{Latitude: lat, Longitude: lng}
	if photo != nil {
		defer photo.Close()
		req.Photo = photo
	}

	// 3. Proses clock-in
	res, err := h.uc.ClockIn(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Clock-in berhasil", res)
}

func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	lat, lng, err := coords(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	res, err := h.uc.ClockOut(c.UserContext(), middleware.UserID(c), usecase.ClockOutInput{Latitude: lat, Longitude: lng})
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Clock-out berhasil", res)
}

// Leave: multipart reason, date (YYYY-MM-DD), photo opsional.
func (h *AttendanceHandler) Leave(c *fiber.Ctx) error {
	var req usecase.LeaveInput
	if isJSON(c) {
		if err := parseBody(c, &req); err != nil {
			return helper.Fail(c, h.log, err)
		}
	} else {
		req.Reason = strings.TrimSpace(c.FormValue("reason"))
		req.Date = strings.TrimSpace(c.FormValue("date"))
	}

	photo, err := formPhoto(c, "photo")
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	if photo != nil {
		defer photo.Close()
		req.Photo = photo
	}

	leave, err := h.uc.Leave(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Ijin berhasil dicatat", leave)
}

// LocationCheck: pratinjau geofence tanpa mencatat apa pun.
func (h *AttendanceHandler) LocationCheck(c *fiber.Ctx) error {
	lat, lng, err := coords(c)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	action := geofence.Action(c.Query("action", string(geofence.ActionClockIn)))
	decision, err := h.uc.CheckLocation(c.UserContext(), usecase.LocationCheckInput{Latitude: lat, Longitude: lng, Action: action})
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Hasil cek lokasi", decision)
}

func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	status, err := h.uc.Today(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Status hari ini", status)
}

// Recap: ?from=YYYY-MM-DD&to=YYYY-MM-DD, default awal bulan s/d hari ini.
func (h *AttendanceHandler) Recap(c *fiber.Ctx) error {
	recap, err := h.reports.Recap(c.UserContext(), middleware.UserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Rekap kehadiran", recap)
}

func (h *AttendanceHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.reports.UserDashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Dashboard pegawai", dashboard)
}
