package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"statbot/internal/model"
	"statbot/internal/report"
	"statbot/internal/repository"
)

type ModerationController interface {
	GetSummary(c *fiber.Ctx) error
}

type moderationController struct {
	repo repository.ModerationRepository
	now  func() time.Time
}

// NewModerationController builds a ModerationController. repo may be nil when
// no archive is configured.
func NewModerationController(repo repository.ModerationRepository) ModerationController {
	return &moderationController{repo: repo, now: time.Now}
}

type moderationResponse struct {
	GuildID string                    `json:"guild_id"`
	Period  string                    `json:"period"`
	Start   string                    `json:"start"`
	End     string                    `json:"end"`
	Actions []model.ModerationSummary `json:"actions"`
}

// GetSummary counts archived moderation events per action over a month
// window.
func (h *moderationController) GetSummary(c *fiber.Ctx) error {
	if h.repo == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "moderation archive is not configured")
	}
	months, err := monthsAgoQuery(c)
	if err != nil {
		return err
	}

	guildID := c.Params("guild_id")
	w := report.WindowFor(h.now(), months)
	rows, err := h.repo.FetchSummary(c.UserContext(), model.ModerationFilter{GuildID: guildID, From: w.Start, To: w.End})
	if err != nil {
		return toHTTPError(err, "failed to fetch moderation summary")
	}
	if rows == nil {
		rows = []model.ModerationSummary{}
	}

	return c.JSON(moderationResponse{
		GuildID: guildID,
		Period:  w.Label(),
		Start:   w.Start.Format(time.RFC3339),
		End:     w.End.Format(time.RFC3339),
		Actions: rows,
	})
}
