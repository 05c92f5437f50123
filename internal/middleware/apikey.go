package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
)

// APIKeyMiddleware creates a Fiber middleware that validates the X-API-Key
// header against the configured keys. An empty key list disables auth.
func APIKeyMiddleware(keys []string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(keys) == 0 {
			return c.Next()
		}

		key := c.Get("X-API-Key")
		if key == "" {
			// Fallback: ?api_key= query param (for SSE/EventSource which can't set headers)
			key = c.Query("api_key")
		}

		for _, k := range keys {
			if subtle.ConstantTimeCompare([]byte(key), []byte(k)) == 1 {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or missing api key",
		})
	}
}
