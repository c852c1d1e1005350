package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/audiocache"
	"github.com/Nixie-Tech-LLC/islampath/internal/config"
	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/islampath/internal/metrics"
	"github.com/Nixie-Tech-LLC/islampath/internal/prefs"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
	"github.com/Nixie-Tech-LLC/islampath/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.SetupLogging()

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	var prefStore prefs.Store = prefs.NewMemoryStore()
	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		defer redis.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redis.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis not answering, continuing")
		}
		cancel()
		prefStore = prefs.NewRedisStore(redis.Rdb)
	} else {
		log.Warn().Msg("REDIS_ADDRESS not set, preferences kept in memory")
	}

	metrics.Register()

	qc := quran.NewClient(redis.Rdb)
	resolver := audio.NewResolver(audio.NewHeadProber(10 * time.Second))
	userPrefs := prefs.New(prefStore)
	cache := audiocache.New(InitStorage(cfg))

	hub := InitPlayerHub(cfg, resolver, userPrefs, qc)
	if hub != nil {
		defer hub.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.Run(ctx, time.Minute)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	RegisterRoutes(r, cfg, Services{
		Store:    store,
		Quran:    qc,
		Resolver: resolver,
		Prefs:    userPrefs,
		Cache:    cache,
		Hub:      hub,
		Pages:    LoadTemplates(cfg.TemplatesPath),
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
