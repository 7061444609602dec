package sync

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pricecompare/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the page and API may be served from different origins
	},
}

// WSHandler subscribes a WebSocket client to the profile named by ?token=.
func WSHandler(hub *Hub, resolve Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" || resolve == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		profileID, err := resolve(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		log := logging.Logger()
		hub.AddWS(ws, profileID)
		log.Info("[ws] client connected", "profile", profileID)

		// Keep connection alive (ignore incoming messages)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		log.Info("[ws] client disconnected", "profile", profileID)
	}
}
