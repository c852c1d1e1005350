package endpoints

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/player"
)

type PlayerHub interface {
	Get(device string) (*player.Controller, error)
	Lookup(device string) (*player.Controller, bool)
	Devices() []string
}

type PlayerController struct {
	hub PlayerHub
}

// PlayerModule exposes the per-device playback controllers. Commands
// answer with the controller snapshot taken after the command ran.
func PlayerModule(hub PlayerHub) api.Module {
	ctl := &PlayerController{hub: hub}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/player", 					ctl.listDevices)
		c.PUBLIC_GET("/player/:device", 			ctl.snapshot)
		c.PUBLIC_POST("/player/:device/play", 		ctl.play)
		c.PUBLIC_POST("/player/:device/ayah", 		ctl.playAyah)
		c.PUBLIC_POST("/player/:device/pause", 		ctl.simple((*player.Controller).Pause))
		c.PUBLIC_POST("/player/:device/resume", 	ctl.simple((*player.Controller).Resume))
		c.PUBLIC_POST("/player/:device/toggle", 	ctl.simple((*player.Controller).TogglePlayPause))
		c.PUBLIC_POST("/player/:device/stop", 		ctl.simple((*player.Controller).Stop))
		c.PUBLIC_POST("/player/:device/next", 		ctl.navigate((*player.Controller).Next))
		c.PUBLIC_POST("/player/:device/previous", 	ctl.navigate((*player.Controller).Previous))
		c.PUBLIC_POST("/player/:device/jump", 		ctl.jump)
		c.PUBLIC_POST("/player/:device/seek", 		ctl.seek)
		c.PUBLIC_PUT("/player/:device/volume", 		ctl.volume)
		c.PUBLIC_PUT("/player/:device/reciter", 	ctl.reciter)
		c.PUBLIC_PUT("/player/:device/autoplay", 	ctl.autoplay)
		c.PUBLIC_POST("/player/:device/key", 		ctl.key)
	})
}

func playerError(err error) *api.APIError {
	switch {
	case errors.Is(err, player.ErrInvalidSurah), errors.Is(err, player.ErrUnknownReciter):
		return api.BadRequest(err.Error())
	case errors.Is(err, player.ErrNoTrack), errors.Is(err, player.ErrSuperseded):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, audio.ErrNoSource):
		return &api.APIError{Code: http.StatusBadGateway, Message: "تعذر العثور على ملف صوتي صالح"}
	}
	log.Warn().Err(err).Msg("[player] command failed")
	return &api.APIError{Code: http.StatusBadGateway, Message: err.Error()}
}

func (p *PlayerController) controller(ctx *gin.Context) (*player.Controller, *api.APIError) {
	c, err := p.hub.Get(ctx.Param("device"))
	if errors.Is(err, player.ErrInvalidDevice) {
		return nil, api.BadRequest(err.Error())
	}
	if err != nil {
		log.Error().Err(err).Str("device", ctx.Param("device")).Msg("[player] no controller")
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "player unavailable"}
	}
	return c, nil
}

// detached keeps a load running if the caller hangs up. Only a newer
// command for the same device cancels it.
func detached(ctx *gin.Context) context.Context {
	return context.WithoutCancel(ctx.Request.Context())
}

// GET /api/player
func (p *PlayerController) listDevices(ctx *gin.Context) (any, *api.APIError) {
	return gin.H{"devices": p.hub.Devices()}, nil
}

// GET /api/player/:device
func (p *PlayerController) snapshot(ctx *gin.Context) (any, *api.APIError) {
	c, ok := p.hub.Lookup(ctx.Param("device"))
	if !ok {
		return player.Snapshot{State: player.StateIdle}, nil
	}
	return c.Snapshot(), nil
}

// POST /api/player/:device/play
func (p *PlayerController) play(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PlayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	reciterID := request.ReciterID
	if reciterID == "" {
		reciterID = c.Snapshot().ReciterID
	}
	if err := c.Play(detached(ctx), reciterID, request.Surah); err != nil {
		return nil, playerError(err)
	}
	return c.Snapshot(), nil
}

// POST /api/player/:device/ayah
func (p *PlayerController) playAyah(ctx *gin.Context) (any, *api.APIError) {
	var request packets.AyahRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.PlayAyah(detached(ctx), request.Surah, request.Ayah); err != nil {
		return nil, playerError(err)
	}
	return c.Snapshot(), nil
}

func (p *PlayerController) simple(op func(*player.Controller) error) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.APIError) {
		c, apiErr := p.controller(ctx)
		if apiErr != nil {
			return nil, apiErr
		}
		if err := op(c); err != nil {
			return nil, playerError(err)
		}
		return c.Snapshot(), nil
	}
}

func (p *PlayerController) navigate(op func(*player.Controller, context.Context) error) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.APIError) {
		c, apiErr := p.controller(ctx)
		if apiErr != nil {
			return nil, apiErr
		}
		if err := op(c, detached(ctx)); err != nil {
			return nil, playerError(err)
		}
		return c.Snapshot(), nil
	}
}

// POST /api/player/:device/jump
func (p *PlayerController) jump(ctx *gin.Context) (any, *api.APIError) {
	var request packets.JumpRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.JumpTo(detached(ctx), request.Surah); err != nil {
		return nil, playerError(err)
	}
	return c.Snapshot(), nil
}

// POST /api/player/:device/seek
func (p *PlayerController) seek(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SeekRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.Seek(request.Seconds); err != nil {
		return nil, playerError(err)
	}
	return c.Snapshot(), nil
}

// PUT /api/player/:device/volume
func (p *PlayerController) volume(ctx *gin.Context) (any, *api.APIError) {
	var request packets.VolumeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	c.SetVolume(*request.Volume)
	return c.Snapshot(), nil
}

// PUT /api/player/:device/reciter
func (p *PlayerController) reciter(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ReciterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.SetReciter(request.ReciterID); err != nil {
		return nil, playerError(err)
	}
	return c.Snapshot(), nil
}

// PUT /api/player/:device/autoplay
func (p *PlayerController) autoplay(ctx *gin.Context) (any, *api.APIError) {
	var request packets.AutoplayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	c.SetAutoplay(request.Enabled)
	return c.Snapshot(), nil
}

// POST /api/player/:device/key
func (p *PlayerController) key(ctx *gin.Context) (any, *api.APIError) {
	var request packets.KeyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	c, apiErr := p.controller(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := c.HandleKey(detached(ctx), request.Code, request.Ctrl); err != nil {
		return nil, playerError(err)
	}
	return c.Snapshot(), nil
}
