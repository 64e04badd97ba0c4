package sync

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // restrict in production
	},
}

// WSHandler upgrades /ws connections onto the hub. A ?user= query parameter
// narrows the feed to that user's events.
func WSHandler(hub *Hub, log zerolog.Logger) gin.HandlerFunc {
	wsLog := log.With().Str("component", "sync-ws").Logger()
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		user := c.Query("user")
		hub.AddWS(ws, user)
		wsLog.Debug().Str("remote", ws.RemoteAddr().String()).Str("user", user).Msg("client connected")

		_ = ws.WriteMessage(
			websocket.TextMessage,
			[]byte(`{"type":"welcome","transport":"websocket"}`+"\n"),
		)

		// keep the connection alive, drain anything the client sends
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		wsLog.Debug().Str("remote", ws.RemoteAddr().String()).Msg("client disconnected")
	}
}
