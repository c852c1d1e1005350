package endpoints

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/listing"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
	"github.com/Nixie-Tech-LLC/islampath/internal/stories"
)

// StoryModule serves the bundled prophet stories.
func StoryModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/stories", 			listStories)
		c.PUBLIC_GET("/stories/:id", 		getStory)
		c.PUBLIC_GET("/stories/:id/share", 	shareStory)
	})
}

// GET /api/stories?q=&page=&size=
func listStories(ctx *gin.Context) (any, *api.APIError) {
	found := stories.Search(ctx.Query("q"))
	return listing.Paginate(found, queryInt(ctx, "page", 1), queryInt(ctx, "size", 0)), nil
}

// GET /api/stories/:id
func getStory(ctx *gin.Context) (any, *api.APIError) {
	s, ok := stories.Lookup(ctx.Param("id"))
	if !ok {
		return nil, api.NotFound("القصة غير موجودة")
	}
	return s, nil
}

// GET /api/stories/:id/share
func shareStory(ctx *gin.Context) (any, *api.APIError) {
	s, ok := stories.Lookup(ctx.Param("id"))
	if !ok {
		return nil, api.NotFound("القصة غير موجودة")
	}
	text := stories.ShareText(s)
	return packets.ShareResponse{Title: "قصة " + s.ArabicName, Text: text, Copy: text}, nil
}

// AdhkarModule serves the adhkar table as-is, optionally narrowed to one
// category.
func AdhkarModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/adhkar", func(ctx *gin.Context) (any, *api.APIError) {
			all, err := store.ListAdhkar()
			if err != nil {
				log.Error().Err(err).Msg("[adhkar] list failed")
				return nil, api.FromDBError(err)
			}
			category := strings.TrimSpace(ctx.Query("category"))
			if category == "" {
				return all, nil
			}
			return listing.Filter(all, func(d model.Dhikr) bool {
				return d.Category != nil && *d.Category == category
			}), nil
		})
	})
}
