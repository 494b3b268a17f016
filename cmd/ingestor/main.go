package main

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"homewatt/internal/config"
	"homewatt/internal/database"
	"homewatt/internal/domain"
	"homewatt/internal/service"
)

// readingMessage is the wire shape published on energy/readings.
type readingMessage struct {
	UserID    int64   `json:"user_id"`
	BreakerID int64   `json:"breaker_id"`
	Voltage   float64 `json:"voltage"`
	Current   float64 `json:"current"`
	Power     float64 `json:"power"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	svcs := service.New(db)

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var r readingMessage
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Error().Err(err).Msg("bad reading payload")
			return
		}
		sample := domain.PowerSample{
			UserID:    r.UserID,
			BreakerID: r.BreakerID,
			Voltage:   r.Voltage,
			Current:   r.Current,
			Power:     r.Power,
		}
		if err := svcs.Power.StoreSample(context.Background(), sample); err != nil {
			log.Error().Err(err).Msg("ingest failed")
		}
	}

	if token := client.Subscribe("energy/readings", 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
