package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"homewatt/internal/service"
	"homewatt/internal/validate"
)

func listBreakersHandler(breakers BreakerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := breakers.List(c.Context(), currentUser(c))
		if err != nil {
			log.Error().Err(err).Msg("breaker list failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch circuit breakers"})
		}
		return c.JSON(items)
	}
}

func createBreakerHandler(breakers BreakerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON payload"})
		}

		errs := validate.Validate(payload, map[string]validate.Rules{
			"name":        {validate.Required(), validate.MinLength(2)},
			"location":    {validate.Required(), validate.MinLength(2)},
			"power_limit": {validate.Required(), validate.Numeric()},
		})
		if len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}

		breakerID, err := breakers.Create(c.Context(), currentUser(c),
			asString(payload["name"]), asString(payload["location"]), asFloat(payload["power_limit"]))
		if err != nil {
			log.Error().Err(err).Msg("breaker create failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create circuit breaker"})
		}
		return c.JSON(fiber.Map{"success": true, "breaker_id": breakerID})
	}
}

func updateBreakerHandler(breakers BreakerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON payload"})
		}
		if payload["id"] == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Breaker ID is required"})
		}

		errs := validate.Validate(payload, map[string]validate.Rules{
			"name":        {validate.MinLength(2)},
			"location":    {validate.MinLength(2)},
			"power_limit": {validate.Numeric()},
			"status":      {validate.OneOf("On", "Off")},
		})
		if len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}

		var upd service.BreakerUpdate
		if v, ok := payload["name"]; ok && v != nil {
			name := asString(v)
			upd.Name = &name
		}
		if v, ok := payload["location"]; ok && v != nil {
			location := asString(v)
			upd.Location = &location
		}
		if v, ok := payload["power_limit"]; ok && v != nil {
			limit := asFloat(v)
			upd.PowerLimit = &limit
		}
		if v, ok := payload["status"]; ok && v != nil {
			status := asString(v)
			upd.Status = &status
		}

		err := breakers.Update(c.Context(), currentUser(c), int64(asFloat(payload["id"])), upd)
		if err != nil {
			log.Error().Err(err).Msg("breaker update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update circuit breaker"})
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

func deleteBreakerHandler(breakers BreakerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		breakerID, err := strconv.ParseInt(c.Query("id"), 10, 64)
		if err != nil || breakerID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Breaker ID is required"})
		}

		if err := breakers.Delete(c.Context(), currentUser(c), breakerID); err != nil {
			log.Error().Err(err).Msg("breaker delete failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete circuit breaker"})
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
