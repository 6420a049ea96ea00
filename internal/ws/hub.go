package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans hunt activity (solves, new teams) out to everyone watching a
// hunt page.
type Hub struct {
	mu    sync.RWMutex
	hunts map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		hunts: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(huntID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hunts[huntID] == nil {
		h.hunts[huntID] = make(map[*websocket.Conn]bool)
	}
	h.hunts[huntID][conn] = true
	log.Printf("ws: client connected to hunt %d (total: %d)", huntID, len(h.hunts[huntID]))
}

func (h *Hub) RemoveConnection(huntID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.hunts[huntID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.hunts, huntID)
		}
		log.Printf("ws: client disconnected from hunt %d", huntID)
	}
}

// Broadcast takes the write lock: failed connections are pruned from the
// map, and two concurrent broadcasts must not race on that delete.
func (h *Hub) Broadcast(huntID uint, message WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.hunts[huntID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
