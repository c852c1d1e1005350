package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/player"
)

const (
	watchInterval = 500 * time.Millisecond
	writeWait     = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchModule streams a device's player snapshot over a websocket. A
// frame is written on connect and then whenever the snapshot changes.
func WatchModule(hub PlayerHub) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW(http.MethodGet, "/player/:device/ws", func(ctx *gin.Context) {
			watch(ctx, hub)
		})
	})
}

func watch(ctx *gin.Context, hub PlayerHub) {
	device := ctx.Param("device")
	controller, err := hub.Get(device)
	if errors.Is(err, player.ErrInvalidDevice) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "player unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("device", device).Msg("[player] websocket upgrade failed")
		return
	}
	defer conn.Close()
	log.Debug().Str("device", device).Msg("[player] watcher connected")

	// the reader only notices the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	var last player.Snapshot
	first := true
	for {
		if snap := controller.Snapshot(); first || snap != last {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
			last, first = snap, false
		}
		select {
		case <-closed:
			log.Debug().Str("device", device).Msg("[player] watcher left")
			return
		case <-ctx.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
