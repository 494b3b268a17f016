package main

import (
	"flag"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"homewatt/internal/config"
)

type reading struct {
	UserID    int64   `json:"user_id"`
	BreakerID int64   `json:"breaker_id"`
	Voltage   float64 `json:"voltage"`
	Current   float64 `json:"current"`
	Power     float64 `json:"power"`
}

// Base draw per breaker in watts, roughly a small household: main panel,
// bedrooms, kitchen, bathroom, living room, garage.
var basePowers = map[int64]float64{
	1: 5.0,
	2: 4.0,
	3: 6.0,
	4: 3.0,
	5: 3.0,
	6: 5.0,
	7: 2.0,
}

func main() {
	userID := flag.Int64("user", 1, "user id to emit readings for")
	count := flag.Int("count", 100, "rounds of readings to publish")
	interval := flag.Duration("interval", 500*time.Millisecond, "delay between rounds")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	const baseVoltage = 230.0

	for i := 0; i < *count; i++ {
		for breakerID, base := range basePowers {
			power := base * (0.8 + rand.Float64()*0.4)
			voltage := baseVoltage + rand.Float64()*4 - 2
			r := reading{
				UserID:    *userID,
				BreakerID: breakerID,
				Voltage:   voltage,
				Current:   power / voltage,
				Power:     power,
			}
			payload, _ := json.Marshal(r)
			token := client.Publish("energy/readings", 0, false, payload)
			token.Wait()
		}
		time.Sleep(*interval)
	}
	log.Info().Msg("simulation done")
}
