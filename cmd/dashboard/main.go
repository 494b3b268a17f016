package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"homewatt/internal/config"
	"homewatt/internal/dashboard"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	viper.SetDefault("DASHBOARD_ADDR", ":3000")
	viper.SetDefault("API_URL", "http://localhost:8080")
	viper.SetDefault("DASHBOARD_EMAIL", "test@example.com")
	viper.SetDefault("DASHBOARD_PASSWORD", "password123")
	viper.SetDefault("DASHBOARD_REFRESH", 5) // seconds

	api := dashboard.NewClient(viper.GetString("API_URL"))
	user, err := api.Login(context.Background(),
		viper.GetString("DASHBOARD_EMAIL"), viper.GetString("DASHBOARD_PASSWORD"))
	if err != nil {
		log.Fatal().Err(err).Msg("dashboard login failed")
	}

	refresh := time.Duration(viper.GetInt("DASHBOARD_REFRESH")) * time.Second
	s := dashboard.New(api, user.ID, refresh)

	addr := viper.GetString("DASHBOARD_ADDR")
	log.Info().Str("addr", addr).Int64("user_id", user.ID).Msg("dashboard listening")
	log.Fatal().Err(http.ListenAndServe(addr, s)).Msg("dashboard exit")
}
