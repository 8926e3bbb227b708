// handlers/admin_routes.go
package handlers

import (
	"context"

	"habit-pact/middleware"
	"habit-pact/workers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckInTrigger starts (or joins) the daily check-in run.
type CheckInTrigger interface {
	Run(ctx context.Context) (*workers.RunSummary, error)
}

func SetupAdminRoutes(app *fiber.App, trigger CheckInTrigger, adminToken string, log *zap.SugaredLogger) {
	admin := app.Group("/admin", middleware.AdminTokenMiddleware(adminToken, log))

	admin.Get("/trigger-checkins", func(c *fiber.Ctx) error {
		summary, err := trigger.Run(c.UserContext())
		if err != nil {
			log.Errorf("❌ [Admin] Manual check-in run failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to send check-ins",
			})
		}
		return c.JSON(fiber.Map{
			"message": "Daily check-ins triggered",
			"summary": summary,
		})
	})
}
