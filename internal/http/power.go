package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"homewatt/internal/domain"
	"homewatt/internal/service"
)

func powerDataHandler(power PowerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if err != nil || userID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID is required"})
		}

		var breakerID *int64
		if raw := c.Query("breaker_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid breaker ID"})
			}
			breakerID = &id
		}

		resp, err := power.GetPowerData(c.Context(), userID, breakerID,
			c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			log.Error().Err(err).Msg("power data fetch failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch power data"})
		}
		return c.JSON(resp)
	}
}

func projectionsHandler(power PowerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if err != nil || userID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "User ID is required",
			})
		}

		projections, err := power.GetProjections(c.Context(), userID)
		if err != nil {
			log.Error().Err(err).Msg("projection calculation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to calculate projections",
			})
		}
		return c.JSON(fiber.Map{"status": "success", "data": projections})
	}
}

func storePowerDataHandler(power PowerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			UserID    *int64   `json:"user_id"`
			BreakerID *int64   `json:"breaker_id"`
			Voltage   *float64 `json:"voltage"`
			Current   *float64 `json:"current"`
			Power     *float64 `json:"power"`
		}
		if err := c.BodyParser(&payload); err != nil ||
			payload.UserID == nil || payload.BreakerID == nil ||
			payload.Voltage == nil || payload.Current == nil || payload.Power == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
		}

		sample := domain.PowerSample{
			UserID:    *payload.UserID,
			BreakerID: *payload.BreakerID,
			Voltage:   *payload.Voltage,
			Current:   *payload.Current,
			Power:     *payload.Power,
		}
		if err := power.StoreSample(c.Context(), sample); err != nil {
			log.Error().Err(err).Msg("sample insert failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store power data"})
		}
		return c.JSON(fiber.Map{"message": "Power data stored successfully"})
	}
}

func listAlertsHandler(alerts AlertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(alerts.List(currentUser(c)))
	}
}

func createAlertHandler(alerts AlertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			BreakerID *int64  `json:"breaker_id"`
			Type      *string `json:"type"`
			Message   *string `json:"message"`
			Severity  *string `json:"severity"`
		}
		// An unreadable body still produces a default alert, matching the
		// simulated feed's permissiveness.
		_ = c.BodyParser(&payload)

		alert := alerts.Create(c.Context(), currentUser(c), service.AlertInput{
			BreakerID: payload.BreakerID,
			Type:      payload.Type,
			Message:   payload.Message,
			Severity:  payload.Severity,
		})
		return c.JSON(alert)
	}
}
