package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/PuzzleTechHub/myus/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for hunt activity
// @Description  Connect via WebSocket to receive solves and team events for a hunt in real time
// @Tags         websocket
// @Param        id path int true "Hunt ID"
// @Router       /ws/hunts/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	hid := uint(huntID)
	h.hub.AddConnection(hid, conn)
	defer h.hub.RemoveConnection(hid, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
