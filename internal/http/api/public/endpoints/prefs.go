package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/islampath/internal/prefs"
)

var toggleMessages = map[prefs.Kind][2]string{
	prefs.Hadiths: {"تم إضافة الحديث للمفضلة", "تم إزالة الحديث من المفضلة"},
	prefs.Stories: {"⭐ تم إضافة القصة للمفضلة", "❌ تم إزالة القصة من المفضلة"},
}

type PrefsController struct {
	prefs *prefs.Prefs
}

// PrefsModule mounts the per-client preference endpoints. Every route
// needs the ClientID middleware ahead of it.
func PrefsModule(p *prefs.Prefs) api.Module {
	ctl := &PrefsController{prefs: p}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/favorites/:kind", 				ctl.listFavorites)
		c.PUBLIC_POST("/favorites/:kind/:id", 			ctl.addFavorite)
		c.PUBLIC_DELETE("/favorites/:kind/:id", 		ctl.removeFavorite)
		c.PUBLIC_POST("/favorites/:kind/:id/toggle", 	ctl.toggleFavorite)

		c.PUBLIC_GET("/prefs/volume", 		ctl.getVolume)
		c.PUBLIC_PUT("/prefs/volume", 		ctl.setVolume)
		c.PUBLIC_GET("/prefs/seen/:flag", 	ctl.getSeen)
		c.PUBLIC_POST("/prefs/seen/:flag", 	ctl.markSeen)
	})
}

func storageFailure(err error) *api.APIError {
	log.Error().Err(err).Msg("[prefs] store failure")
	return &api.APIError{Code: http.StatusServiceUnavailable, Message: "تعذر حفظ التفضيلات"}
}

func kindParam(ctx *gin.Context) (prefs.Kind, *api.APIError) {
	kind, err := prefs.ParseKind(ctx.Param("kind"))
	if err != nil {
		return "", api.NotFound("unknown favorites list")
	}
	return kind, nil
}

// GET /api/favorites/:kind
func (p *PrefsController) listFavorites(ctx *gin.Context) (any, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	ids, err := p.prefs.Favorites(ctx.Request.Context(), middleware.GetClientID(ctx), kind)
	if err != nil {
		return nil, storageFailure(err)
	}
	return packets.FavoritesResponse{Kind: string(kind), IDs: ids}, nil
}

// POST /api/favorites/:kind/:id
func (p *PrefsController) addFavorite(ctx *gin.Context) (any, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	ids, err := p.prefs.AddFavorite(ctx.Request.Context(), middleware.GetClientID(ctx), kind, ctx.Param("id"))
	if err != nil {
		return nil, storageFailure(err)
	}
	return packets.FavoritesResponse{Kind: string(kind), IDs: ids}, nil
}

// DELETE /api/favorites/:kind/:id
func (p *PrefsController) removeFavorite(ctx *gin.Context) (any, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	ids, err := p.prefs.RemoveFavorite(ctx.Request.Context(), middleware.GetClientID(ctx), kind, ctx.Param("id"))
	if err != nil {
		return nil, storageFailure(err)
	}
	return packets.FavoritesResponse{Kind: string(kind), IDs: ids}, nil
}

// POST /api/favorites/:kind/:id/toggle
func (p *PrefsController) toggleFavorite(ctx *gin.Context) (any, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	added, ids, err := p.prefs.ToggleFavorite(ctx.Request.Context(), middleware.GetClientID(ctx), kind, ctx.Param("id"))
	if err != nil {
		return nil, storageFailure(err)
	}
	msg := toggleMessages[kind][1]
	if added {
		msg = toggleMessages[kind][0]
	}
	return packets.ToggleResponse{Added: added, IDs: ids, Message: msg}, nil
}

// GET /api/prefs/volume
func (p *PrefsController) getVolume(ctx *gin.Context) (any, *api.APIError) {
	v, err := p.prefs.Volume(ctx.Request.Context(), middleware.GetClientID(ctx))
	if err != nil {
		return nil, storageFailure(err)
	}
	return packets.VolumeResponse{Volume: v}, nil
}

// PUT /api/prefs/volume
func (p *PrefsController) setVolume(ctx *gin.Context) (any, *api.APIError) {
	var request packets.VolumeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	v, err := p.prefs.SetVolume(ctx.Request.Context(), middleware.GetClientID(ctx), *request.Volume)
	if err != nil {
		return nil, storageFailure(err)
	}
	return packets.VolumeResponse{Volume: v}, nil
}

func flagParam(ctx *gin.Context) (string, *api.APIError) {
	flag := ctx.Param("flag")
	if !prefs.IsKnownFlag(flag) {
		return "", api.NotFound("unknown flag")
	}
	return flag, nil
}

// GET /api/prefs/seen/:flag
func (p *PrefsController) getSeen(ctx *gin.Context) (any, *api.APIError) {
	flag, apiErr := flagParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	seen, err := p.prefs.Seen(ctx.Request.Context(), middleware.GetClientID(ctx), flag)
	if err != nil {
		return nil, storageFailure(err)
	}
	return packets.SeenResponse{Flag: flag, Seen: seen}, nil
}

// POST /api/prefs/seen/:flag
func (p *PrefsController) markSeen(ctx *gin.Context) (any, *api.APIError) {
	flag, apiErr := flagParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := p.prefs.MarkSeen(ctx.Request.Context(), middleware.GetClientID(ctx), flag); err != nil {
		return nil, storageFailure(err)
	}
	return packets.SeenResponse{Flag: flag, Seen: true}, nil
}
