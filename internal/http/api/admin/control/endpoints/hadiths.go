package endpoints

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type HadithController struct {
	store db.Store
}

// HadithModule mounts all authenticated /hadiths endpoints
func HadithModule(store db.Store) api.Module {
	ctl := &HadithController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/hadiths", 			ctl.listHadiths)
		c.GET("/hadiths/:id", 		ctl.getHadith)
		c.POST("/hadiths", 			ctl.createHadith)
		c.PUT("/hadiths/:id", 		ctl.updateHadith)
		c.DELETE("/hadiths/:id", 	ctl.deleteHadith)
	})
}

func (h *HadithController) listHadiths(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := h.store.ListHadiths()
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return all, nil
}

func (h *HadithController) getHadith(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	x, err := h.store.GetHadith(ctx.Param("id"))
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return x, nil
}

func (h *HadithController) createHadith(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateHadithRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	created, err := h.store.CreateHadith(model.Hadith{
		Text:         request.Text,
		BookName:     request.BookName,
		Narrator:     request.Narrator,
		Category:     request.Category,
		BookNumber:   request.BookNumber,
		HadithNumber: request.HadithNumber,
		Grade:        request.Grade,
	})
	if err != nil {
		return nil, api.FromDBError(err)
	}
	log.Info().Int("user", user.ID).Str("id", created.ID).Msg("[admin] hadith created")
	return created, nil
}

func (h *HadithController) updateHadith(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var patch model.HadithPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	updated, err := h.store.UpdateHadith(ctx.Param("id"), patch)
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return updated, nil
}

func (h *HadithController) deleteHadith(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := h.store.DeleteHadith(ctx.Param("id")); err != nil {
		return nil, api.FromDBError(err)
	}
	log.Info().Int("user", user.ID).Str("id", ctx.Param("id")).Msg("[admin] hadith deleted")
	return nil, nil
}
