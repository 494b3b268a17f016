package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"homewatt/internal/service"
	"homewatt/internal/validate"
)

func Register(app *fiber.App, deps *Deps) {
	app.Post("/register", registerHandler(deps.Auth))
	app.Post("/login", loginHandler(deps.Auth))
	app.Post("/reset_password", resetPasswordHandler(deps.Auth))
	app.Post("/delete_account", deleteAccountHandler(deps.Auth))

	// Rate limit runs before authentication: an over-limit client is
	// rejected without any further work.
	cb := app.Group("/circuit_breakers", rateLimited(deps.Limiter), authRequired(deps.Auth))
	cb.Get("", listBreakersHandler(deps.Breakers))
	cb.Post("", createBreakerHandler(deps.Breakers))
	cb.Put("", updateBreakerHandler(deps.Breakers))
	cb.Delete("", deleteBreakerHandler(deps.Breakers))

	app.Get("/get_power_data", powerDataHandler(deps.Power))
	app.Get("/get_power_projections", projectionsHandler(deps.Power))
	app.Post("/store_power_data", storePowerDataHandler(deps.Power))

	al := app.Group("/alerts", authRequired(deps.Auth))
	al.Get("", listAlertsHandler(deps.Alerts))
	al.Post("", createAlertHandler(deps.Alerts))

	st := app.Group("/user_settings", authRequired(deps.Auth))
	st.Get("", getSettingsHandler(deps.Settings))
	st.Post("", saveSettingsHandler(deps.Settings))

	if deps.Backup != nil {
		app.Post("/backup", authRequired(deps.Auth), backupHandler(deps.Backup))
	}
}

func registerHandler(auth AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&payload); err != nil ||
			payload.Name == "" || payload.Email == "" || payload.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
		}
		if msg := validate.Email().Apply(payload.Email); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		if len(payload.Password) < 6 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password must be at least 6 characters long"})
		}

		err := auth.Register(c.Context(), payload.Name, payload.Email, payload.Password)
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already registered"})
		}
		if err != nil {
			log.Error().Err(err).Msg("registration failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Registration failed"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful"})
	}
}

func loginHandler(auth AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&payload); err != nil || payload.Email == "" || payload.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
		}

		user, token, err := auth.Login(c.Context(), payload.Email, payload.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		if err != nil {
			log.Error().Err(err).Msg("login failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
		}
		return c.JSON(fiber.Map{
			"message": "Login successful",
			"user":    user,
			"token":   token,
		})
	}
}

func resetPasswordHandler(auth AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			Email           string `json:"email"`
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := c.BodyParser(&payload); err != nil ||
			payload.Email == "" || payload.CurrentPassword == "" || payload.NewPassword == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
		}

		err := auth.ResetPassword(c.Context(), payload.Email, payload.CurrentPassword, payload.NewPassword)
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or current password"})
		}
		if err != nil {
			log.Error().Err(err).Msg("password reset failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Database error"})
		}
		return c.JSON(fiber.Map{"message": "Password updated successfully"})
	}
}

func deleteAccountHandler(auth AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&payload); err != nil || payload.Email == "" || payload.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
		}

		err := auth.DeleteAccount(c.Context(), payload.Email, payload.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		if err != nil {
			log.Error().Err(err).Msg("account deletion failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete account"})
		}
		return c.JSON(fiber.Map{"message": "Account deleted successfully"})
	}
}

func backupHandler(backup BackupRunner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := backup.Run(c.Context())
		if err != nil {
			log.Error().Err(err).Msg("backup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Backup failed"})
		}
		return c.JSON(fiber.Map{"success": true, "file": result.File, "object_url": result.ObjectURL})
	}
}

// asFloat reads a JSON value that may arrive as a number or numeric string.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
