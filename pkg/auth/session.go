package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zapshots/shots-console-api/pkg/router"
)

// SessionAuth validates the dashboard session token from the Authorization
// header ("Bearer <jwt>"). A raw upstream key may also be supplied via the
// legacy "Key" header, which keeps old dashboard builds working against
// this service without re-login.
func SessionAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if legacyKey := strings.TrimSpace(c.Get("Key")); legacyKey != "" {
			c.Locals("upstream_key", legacyKey)
			c.Locals("user_id", legacyKey)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return router.ResponseUnauthorized(c, "Missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return router.ResponseUnauthorized(c, "Invalid Authorization header format. Use: Bearer <token>")
		}

		tokenString := parts[1]
		if tokenString == "" {
			return router.ResponseUnauthorized(c, "Missing token")
		}

		claims, err := ValidateSessionToken(tokenString)
		if err != nil {
			return router.ResponseUnauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_name", claims.UserName)
		c.Locals("permission", claims.Permission)
		c.Locals("upstream_key", claims.UpstreamKey)

		return c.Next()
	}
}

// UpstreamKey returns the backend credential stored by SessionAuth.
func UpstreamKey(c *fiber.Ctx) string {
	if v := c.Locals("upstream_key"); v != nil {
		if key, ok := v.(string); ok {
			return key
		}
	}
	return ""
}

// UserID returns the session user id stored by SessionAuth.
func UserID(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
