package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"statbot/internal/report"
	"statbot/internal/service"
)

type ReportController interface {
	GetReport(c *fiber.Ctx) error
}

type reportController struct {
	reports service.ReportService
}

// NewReportController builds a ReportController.
func NewReportController(svc service.ReportService) ReportController {
	return &reportController{reports: svc}
}

type reportResponse struct {
	Kind      report.Kind `json:"kind"`
	GuildID   string      `json:"guild_id"`
	MonthsAgo int         `json:"months_ago"`
	Report    string      `json:"report"`
}

// GetReport renders one activity report the same way the chat command does.
func (h *reportController) GetReport(c *fiber.Ctx) error {
	guildID := utils.Trim(c.Query("guild_id"), ' ')
	if guildID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "guild_id is required")
	}
	months, err := monthsAgoQuery(c)
	if err != nil {
		return err
	}

	kind := report.Kind(c.Params("kind"))
	text, err := h.reports.ComputeReport(c.UserContext(), kind, guildID, months, nil)
	if err != nil {
		return toHTTPError(err, "failed to compute report")
	}

	return c.JSON(reportResponse{Kind: kind, GuildID: guildID, MonthsAgo: months, Report: text})
}
