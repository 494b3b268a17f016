package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"homewatt/internal/domain"
	"homewatt/internal/validate"
)

func getSettingsHandler(settings SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := settings.Get(c.Context(), currentUser(c))
		if err != nil {
			log.Error().Err(err).Msg("settings fetch failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
		}
		return c.JSON(s)
	}
}

func saveSettingsHandler(settings SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON payload"})
		}

		errs := validate.Validate(payload, map[string]validate.Rules{
			"kwh_rate":     {validate.Required(), validate.Numeric()},
			"refresh_rate": {validate.Required(), validate.Numeric()},
			"theme":        {validate.Required(), validate.OneOf("light", "dark")},
		})
		if len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}

		s := domain.UserSettings{
			UserID:      currentUser(c),
			KWhRate:     asFloat(payload["kwh_rate"]),
			RefreshRate: int(asFloat(payload["refresh_rate"])),
			Theme:       asString(payload["theme"]),
		}
		if err := settings.Save(c.Context(), s); err != nil {
			log.Error().Err(err).Msg("settings save failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
