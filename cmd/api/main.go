package main

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"homewatt/internal/cloud"
	"homewatt/internal/config"
	"homewatt/internal/database"
	httpHandlers "homewatt/internal/http"
	"homewatt/internal/ratelimit"
	"homewatt/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svcs := service.New(db)

	ctx := context.Background()
	if config.UseCloudServices() {
		if arn := config.SNSTopicArn(); arn != "" {
			sns, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn)
			if err != nil {
				log.Fatal().Err(err).Msg("sns client init failed")
			}
			svcs.Alerts.SetPublisher(sns)
		}
		s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client init failed")
		}
		svcs.Backup.SetUploader(s3c)
	}

	limiter := ratelimit.New(svcs.Repos, config.RateLimitWindow(), config.RateLimitMaxRequests())
	go limiter.Prune(ctx, 10*time.Minute)
	go sweepCache(ctx, svcs)

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AllowedOrigin(),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, &httpHandlers.Deps{
		Auth:     svcs.Auth,
		Breakers: svcs.Breakers,
		Power:    svcs.Power,
		Alerts:   svcs.Alerts,
		Settings: svcs.Settings,
		Backup:   svcs.Backup,
		Limiter:  limiter,
	})

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}

// sweepCache clears expired cache rows in the background; reads already
// filter on expiry, so this only keeps the table small.
func sweepCache(ctx context.Context, svcs *service.Services) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svcs.Repos.CacheSweep(ctx); err != nil {
				log.Error().Err(err).Msg("cache sweep failed")
			}
		}
	}
}
