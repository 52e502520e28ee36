package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/theanh205-kkt/webdt/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderEvent is pushed to subscribers when an order is placed or its status
// changes.
type OrderEvent struct {
	Type    string             `json:"type"`
	OrderID int                `json:"orderId"`
	Status  models.OrderStatus `json:"status,omitempty"`
	At      time.Time          `json:"at"`
}

// Hub fans order events out to connected back-office clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Broadcast(event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// Subscribe upgrades the request and keeps the connection in the hub until
// the peer goes away.
// GET /admin/orders/ws
func Subscribe(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hub.mu.Lock()
		hub.clients[conn] = true
		hub.mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.mu.Lock()
				delete(hub.clients, conn)
				hub.mu.Unlock()
				break
			}
		}
	}
}
