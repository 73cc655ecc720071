package handler

import (
	"log"

	"absensi-backend/internal/helper"
	"absensi-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	uc  *usecase.ReportUsecase
	log *log.Logger
}

func NewDashboardHandler(uc *usecase.ReportUsecase, l *log.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: l}
}

func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	stats, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Dashboard admin", stats)
}
