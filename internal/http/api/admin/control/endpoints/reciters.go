package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type ReciterController struct {
	store db.Store
}

func ReciterModule(store db.Store) api.Module {
	ctl := &ReciterController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/reciters", 			ctl.listReciters)
		c.POST("/reciters", 		ctl.createReciter)
		c.POST("/reciters/dedupe", 	ctl.dedupeReciters)
		c.PUT("/reciters/:id", 		ctl.updateReciter)
		c.DELETE("/reciters/:id", 	ctl.deleteReciter)
	})
}

func (r *ReciterController) listReciters(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := r.store.ListReciters()
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return all, nil
}

// createReciter refuses a second row with the same Arabic name.
func (r *ReciterController) createReciter(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateReciterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	existing, err := r.store.ReciterByArabicName(request.ArabicName)
	if err != nil {
		return nil, api.FromDBError(err)
	}
	if existing != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "القارئ موجود بالفعل"}
	}

	created, err := r.store.CreateReciter(model.Reciter{
		Name:         request.Name,
		ArabicName:   request.ArabicName,
		AudioBaseURL: request.AudioBaseURL,
		FallbackURLs: pq.StringArray(request.FallbackURLs),
		Description:  request.Description,
		Country:      request.Country,
		ZipURL:       request.ZipURL,
	})
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return created, nil
}

func (r *ReciterController) updateReciter(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var patch model.ReciterPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	updated, err := r.store.UpdateReciter(ctx.Param("id"), patch)
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return updated, nil
}

func (r *ReciterController) deleteReciter(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := r.store.DeleteReciter(ctx.Param("id")); err != nil {
		return nil, api.FromDBError(err)
	}
	return nil, nil
}

// POST /api/admin/reciters/dedupe
func (r *ReciterController) dedupeReciters(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	removed, err := r.store.CleanDuplicateReciters()
	if err != nil {
		return nil, api.FromDBError(err)
	}
	log.Info().Int("user", user.ID).Int("removed", removed).Msg("[admin] duplicate reciters removed")
	return packets.DedupeResponse{Removed: removed}, nil
}
