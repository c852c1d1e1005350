package main

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/audiocache"
	"github.com/Nixie-Tech-LLC/islampath/internal/config"
	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/control/endpoints"
	publicapi "github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/endpoints"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/islampath/internal/player"
	"github.com/Nixie-Tech-LLC/islampath/internal/prefs"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
	"github.com/Nixie-Tech-LLC/islampath/internal/seo"
)

// Services bundles what the route modules are built from.
type Services struct {
	Store    db.Store
	Quran    *quran.Client
	Resolver *audio.Resolver
	Prefs    *prefs.Prefs
	Cache    *audiocache.Cache
	Hub      *player.Hub
	Pages    *template.Template
	Limiter  *middleware.RateLimiter
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, s Services) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			middleware.ClientIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			"X-Audio-Cache",
			middleware.ClientIDHeader,
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, s.Store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     s.Store,
	},
		// session endpoints that require auth
		authapi.AuthSessionModule(cfg.JWTSecret, s.Store),
		// content management
		adminapi.HadithModule(s.Store),
		adminapi.StoryModule(s.Store),
		adminapi.AdhkarModule(s.Store),
		adminapi.ReciterModule(s.Store),
		adminapi.HealthModule(s.Store),
	)

	// the remote player only exists with a broker
	var playerAPI, watchAPI api.Module
	if s.Hub != nil {
		playerAPI, watchAPI = publicapi.PlayerModule(s.Hub), publicapi.WatchModule(s.Hub)
	}
	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Middleware: []gin.HandlerFunc{s.Limiter.Middleware(), middleware.ClientID()},
	},
		publicapi.QuranModule(s.Quran),
		publicapi.AudioModule(s.Resolver),
		publicapi.DownloadModule(s.Cache),
		publicapi.HadithModule(s.Store),
		publicapi.StoryModule(),
		publicapi.AdhkarModule(s.Store),
		publicapi.PrefsModule(s.Prefs),
		playerAPI,
		watchAPI,
	)

	// page shells and the audio proxy live at the site root
	api.MountGroup(r, api.GroupConfig{
		Prefix: "",
	},
		publicapi.PagesModule(seo.NewSite(cfg.SiteURL), s.Pages),
		publicapi.AudioCacheModule(s.Cache),
	)
}
