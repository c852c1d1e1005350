package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type AdhkarController struct {
	store db.Store
}

func AdhkarModule(store db.Store) api.Module {
	ctl := &AdhkarController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/adhkar", 			ctl.listAdhkar)
		c.POST("/adhkar", 			ctl.createDhikr)
		c.PUT("/adhkar/:id", 		ctl.updateDhikr)
		c.DELETE("/adhkar/:id", 	ctl.deleteDhikr)
	})
}

func (a *AdhkarController) listAdhkar(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := a.store.ListAdhkar()
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return all, nil
}

func (a *AdhkarController) createDhikr(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateDhikrRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	count := request.Count
	if count == 0 {
		count = 1
	}
	created, err := a.store.CreateDhikr(model.Dhikr{
		Text:        request.Text,
		Category:    request.Category,
		Count:       count,
		Reference:   request.Reference,
		Description: request.Description,
	})
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return created, nil
}

func (a *AdhkarController) updateDhikr(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var patch model.DhikrPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	if patch.Count != nil && *patch.Count < 1 {
		return nil, api.BadRequest("count must be at least 1")
	}
	updated, err := a.store.UpdateDhikr(ctx.Param("id"), patch)
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return updated, nil
}

func (a *AdhkarController) deleteDhikr(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := a.store.DeleteDhikr(ctx.Param("id")); err != nil {
		return nil, api.FromDBError(err)
	}
	return nil, nil
}
