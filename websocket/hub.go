package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Hub tracks one live connection per user and pushes JSON events to them.
// It is built in main and handed to the notification dispatcher; nothing
// reaches it through package globals.
type Hub struct {
	clients    map[uuid.UUID]*websocket.Conn
	clientsMu  sync.RWMutex
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UserID)
			h.clientsMu.Lock()
			h.clients[client.UserID] = client.Conn
			h.clientsMu.Unlock()
		case client := <-h.unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.clientsMu.Lock()
			if conn, ok := h.clients[client.UserID]; ok && conn == client.Conn {
				delete(h.clients, client.UserID)
			}
			h.clientsMu.Unlock()
		}
	}
}

// Push sends one event to the given user if they have a live connection.
// A write failure drops the connection; delivery is best effort.
func (h *Hub) Push(userID uuid.UUID, payload interface{}) {
	h.clientsMu.RLock()
	conn, ok := h.clients[userID]
	h.clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("Error pushing event to client %s: %v", userID, err)
		conn.Close()
		h.clientsMu.Lock()
		if cur, ok := h.clients[userID]; ok && cur == conn {
			delete(h.clients, userID)
		}
		h.clientsMu.Unlock()
	}
}
