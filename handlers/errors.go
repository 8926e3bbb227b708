// handlers/errors.go
package handlers

import (
	"habit-pact/apperrors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps an engine error onto its status. Internal causes are
// logged and never echoed to the client.
func respondError(c *fiber.Ctx, log *zap.SugaredLogger, err error) error {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)

	if code == apperrors.CodeInternal {
		log.Errorf("❌ [HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": apperrors.MessageOf(err),
		"code":  code,
	})
}
