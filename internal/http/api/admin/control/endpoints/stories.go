package endpoints

import (
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type StoryController struct {
	store db.Store
}

// StoryModule manages the prophet_stories table.
func StoryModule(store db.Store) api.Module {
	ctl := &StoryController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/stories", 			ctl.listStories)
		c.POST("/stories", 			ctl.createStory)
		c.PUT("/stories/:id", 		ctl.updateStory)
		c.DELETE("/stories/:id", 	ctl.deleteStory)
	})
}

func (s *StoryController) listStories(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := s.store.ListStories()
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return all, nil
}

func (s *StoryController) createStory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateStoryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	created, err := s.store.CreateStory(model.ProphetStory{
		Name:             request.Name,
		ArabicName:       request.ArabicName,
		ShortDescription: request.ShortDescription,
		FullStory:        request.FullStory,
		QuranReferences:  pq.StringArray(request.QuranReferences),
	})
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return created, nil
}

func (s *StoryController) updateStory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var patch model.StoryPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	updated, err := s.store.UpdateStory(ctx.Param("id"), patch)
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return updated, nil
}

func (s *StoryController) deleteStory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := s.store.DeleteStory(ctx.Param("id")); err != nil {
		return nil, api.FromDBError(err)
	}
	return nil, nil
}
