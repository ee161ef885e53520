package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

func HttpCacheInMemory(ttl int) fiber.Handler {
	if ttl <= 0 {
		ttl = 5
	}
	return cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			// Session-scoped responses must not be shared across users.
			return c.Get("Authorization") != "" || c.Get("Key") != ""
		},
		Expiration: time.Duration(ttl) * time.Second,
	})
}
