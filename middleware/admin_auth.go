// middleware/admin_auth.go
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminTokenMiddleware guards operator routes with a static Bearer token.
// An empty expected token disables the routes entirely.
func AdminTokenMiddleware(expectedToken string, log *zap.SugaredLogger) fiber.Handler {
	if expectedToken == "" {
		log.Warn("⚠️ [ADMIN_AUTH] ADMIN_TOKEN is not set, admin routes are disabled")
	}

	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin routes are disabled",
			})
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Warnf("🚫 [ADMIN_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin token missing",
			})
		}

		// Parse "Bearer <token>", accepting a raw token as well
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Warnf("❌ [ADMIN_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}

		log.Debugf("✅ [ADMIN_AUTH] Admin request accepted for %s", c.Path())
		return c.Next()
	}
}
