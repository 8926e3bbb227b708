// handlers/dashboard_routes.go
package handlers

import (
	"habit-pact/dashboard"
	"habit-pact/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SetupDashboardRoutes(app *fiber.App, streaks *services.StreakService, log *zap.SugaredLogger) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		active, err := streaks.ActiveStreaksReport(c.UserContext())
		if err != nil {
			return respondError(c, log, err)
		}
		top, err := streaks.TopStreaks(c.UserContext(), services.DefaultTopStreaks)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(fiber.Map{
			"active_streaks": active,
			"top_streaks":    top,
			"has_streaks":    len(active) > 0,
		})
	})

	// 🖼️ The board as an image; no active challenges means no content
	app.Get("/dashboard.svg", func(c *fiber.Ctx) error {
		active, err := streaks.ActiveStreaksReport(c.UserContext())
		if err != nil {
			return respondError(c, log, err)
		}
		svg := dashboard.RenderSVG(active)
		if svg == "" {
			return c.SendStatus(fiber.StatusNoContent)
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.SendString(svg)
	})

	app.Get("/streaks/top", func(c *fiber.Ctx) error {
		top, err := streaks.TopStreaks(c.UserContext(), c.QueryInt("limit", services.DefaultTopStreaks))
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(fiber.Map{"top_streaks": top})
	})
}
