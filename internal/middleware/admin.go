// Package middleware provides HTTP middleware for the wallet engine's
// admin surface and write-endpoint idempotency-key handling.
package middleware

import (
	"strings"

	"walletengine/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// adminClaims is the payload of the static service token used to
// guard the admin surface. There is no user identity here — the
// engine's Non-goals exclude user authentication entirely; this token
// authenticates the admin operator, not an end user.
type adminClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// AdminAuth validates a bearer JWT signed with ADMIN_TOKEN_SECRET
// against the "service" claim, guarding asset-type/account
// provisioning and transaction-listing endpoints.
func AdminAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "missing authorization header"})
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	secret := config.GetEnv("ADMIN_TOKEN_SECRET", "")
	if secret == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "admin auth is not configured"})
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.Service != "wallet-admin" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "invalid admin token"})
	}

	return c.Next()
}
