package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/config"
	"github.com/Nixie-Tech-LLC/islampath/internal/storage"
)

// InitStorage selects the backend the audio cache writes to.
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("bucket", cfg.SpacesBucket).Msg("audio cache in Spaces")
		return spacesStorage
	}

	log.Info().Str("dir", cfg.AudioCacheDir).Msg("audio cache on local disk")
	return storage.NewLocalStorage(cfg.AudioCacheDir)
}
