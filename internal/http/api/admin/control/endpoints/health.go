package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

// HealthModule exposes the database diagnostics used by the admin panel.
func HealthModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/diagnostics", func(ctx *gin.Context, user *model.User) (any, *api.APIError) {
			return store.Diagnose(ctx.Request.Context()), nil
		})
		c.GET("/tables/:table/count", func(ctx *gin.Context, user *model.User) (any, *api.APIError) {
			table := ctx.Param("table")
			n, err := store.TableCount(table)
			if errors.Is(err, db.ErrUnknownTable) {
				return nil, api.BadRequest("unknown table")
			}
			if err != nil {
				return nil, api.FromDBError(err)
			}
			return packets.TableCountResponse{Table: table, Count: n}, nil
		})
		c.GET("/ping", func(ctx *gin.Context, user *model.User) (any, *api.APIError) {
			if err := store.Ping(ctx.Request.Context()); err != nil {
				return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: db.UserMessage(err)}
			}
			return gin.H{"ok": true}, nil
		})
	})
}
