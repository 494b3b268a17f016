package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// authRequired validates the bearer session token and stashes the
// authenticated user id in request locals.
func authRequired(auth AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		userID, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// rateLimited rejects over-limit clients before any other work is done.
func rateLimited(limiter RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := limiter.Check(c.Context(), c.IP()); err != nil {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Rate limit exceeded"})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}
