package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Health handles GET /health.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "ok",
		"service":   "wallet-engine",
		"timestamp": time.Now().UTC(),
	})
}
