package handler

import (
	"log"

	"absensi-backend/internal/helper"
	"absensi-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	uc  *usecase.ReportUsecase
	log *log.Logger
}

func NewReportHandler(uc *usecase.ReportUsecase, l *log.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: l}
}

// GetAttendanceReport menyediakan data laporan kehadiran semua pegawai, urut nama lalu tanggal.
func (h *ReportHandler) GetAttendanceReport(c *fiber.Ctx) error {
	report, err := h.uc.Report(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Laporan kehadiran", report)
}
