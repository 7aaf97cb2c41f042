package routes

import (
	"statbot/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Controllers groups the handlers mounted under /api.
type Controllers struct {
	Reports       controller.ReportController
	ReactionRoles controller.ReactionRoleController
	Moderation    controller.ModerationController
}

// Register attaches all HTTP routes to the Fiber app. Routes under /api run
// behind auth.
func Register(app *fiber.App, auth fiber.Handler, ctrl Controllers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", auth)
	api.Get("/reports/:kind", ctrl.Reports.GetReport)
	api.Get("/reaction-roles", ctrl.ReactionRoles.List)
	api.Post("/reaction-roles", ctrl.ReactionRoles.Create)
	api.Put("/reaction-roles/:message_id", ctrl.ReactionRoles.Edit)
	api.Get("/moderation/:guild_id", ctrl.Moderation.GetSummary)
}
