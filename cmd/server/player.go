package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/config"
	"github.com/Nixie-Tech-LLC/islampath/internal/player"
	"github.com/Nixie-Tech-LLC/islampath/internal/prefs"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
)

// InitPlayerHub connects to the broker and returns a hub whose controllers
// drive remote media elements. A nil hub means no broker is configured.
func InitPlayerHub(cfg *config.Config, resolver *audio.Resolver, p *prefs.Prefs, qc *quran.Client) *player.Hub {
	if cfg.MQTTBrokerURL == "" {
		log.Warn().Msg("MQTT_BROKER_URL not set, remote player disabled")
		return nil
	}

	client, err := player.Connect(cfg.MQTTBrokerURL, "islampath-"+uuid.NewString())
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}

	surahName := func(n int) string {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		list, err := qc.Surahs(ctx)
		if err != nil {
			return ""
		}
		return quran.SurahName(list, n)
	}

	hub := player.NewHub(func(device string) (*player.Controller, func(), error) {
		media, err := player.NewMQTTMedia(client, device)
		if err != nil {
			return nil, nil, err
		}
		announcer := player.NewMQTTAnnouncer(client, device)
		c := player.NewController(media, player.Options{
			Resolver:         resolver,
			Notifier:         announcer,
			Session:          announcer,
			VolumeStore:      p.ForClient(device),
			SurahName:        surahName,
			Autoplay:         true,
			AutoAdvanceDelay: cfg.AutoplayDelay,
		})
		log.Info().Str("device", device).Msg("[player] controller attached")
		return c, media.Close, nil
	})
	hub.PruneEvery(time.Minute, 30*time.Minute)
	return hub
}
