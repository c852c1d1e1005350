package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/http/middleware"
)

// Module registers a feature's routes on a Controller.
type Module interface {
	Mount(c *Controller)
}

type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig describes one route group. Users and SecretKey are only
// read when Auth is set.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	SecretKey  string
	Users      middleware.UserLoader
	Middleware []gin.HandlerFunc
}

// MountGroup opens a child group of parent and mounts modules on it. The
// group's own middleware runs before the JWT check, so rate limiting
// applies to unauthenticated requests too. Nil modules are skipped, which
// lets callers leave out features that are not configured.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) *gin.RouterGroup {
	grp := parent.Group(cfg.Prefix, cfg.Middleware...)
	if cfg.Auth {
		if cfg.SecretKey == "" || cfg.Users == nil {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("[api] authenticated group needs a secret and a user loader")
		}
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey, cfg.Users))
	}

	controller := &Controller{Group: grp}
	mounted := 0
	for _, m := range modules {
		if m == nil {
			continue
		}
		m.Mount(controller)
		mounted++
	}
	log.Debug().Str("prefix", grp.BasePath()).Bool("auth", cfg.Auth).Int("modules", mounted).Msg("[api] group mounted")
	return grp
}
