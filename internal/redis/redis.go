package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// Ping reports whether the configured server answers.
func Ping(ctx context.Context) error {
	if Rdb == nil {
		return redis.ErrClosed
	}
	return Rdb.Ping(ctx).Err()
}

func Close() {
	if Rdb == nil {
		return
	}
	if err := Rdb.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis client")
	}
}
