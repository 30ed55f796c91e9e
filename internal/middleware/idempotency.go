package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const idempotencyContextKey = "idempotencyKey"

// idempotencyBody is the minimal shape read from write-endpoint
// bodies to recover idempotencyKey when it isn't sent as a header.
type idempotencyBody struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// RequireIdempotencyKey reads the idempotency-key header or the
// idempotencyKey body field, trims it, and rejects the request with
// 400 if it is missing or shorter than 8 characters. The resolved key
// is stashed in Locals for the handler.
func RequireIdempotencyKey(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Get("idempotency-key"))

	if key == "" {
		var body idempotencyBody
		if err := c.BodyParser(&body); err == nil {
			key = strings.TrimSpace(body.IdempotencyKey)
		}
	}

	if len(key) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "idempotency key is required and must be at least 8 characters",
		})
	}

	c.Locals(idempotencyContextKey, key)
	return c.Next()
}

// IdempotencyKey retrieves the key stashed by RequireIdempotencyKey.
func IdempotencyKey(c *fiber.Ctx) string {
	key, _ := c.Locals(idempotencyContextKey).(string)
	return key
}
