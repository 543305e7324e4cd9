package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/service"
)

// ReportHandler serves the dashboard summary.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dashboard GET /reports/dashboard.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, dto.NewDashboardResponse(summary))
}
