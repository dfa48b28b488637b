package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"rewards-admin-service/internal/events"
	"rewards-admin-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Sugar is assigned by main during startup.
var Sugar = zap.NewNop().Sugar()

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The console is served from a separate origin.
		return true
	},
}

// Client represents a single connected console instance.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub relays bus events (orders:updated, notifications:updated) to every
// connected console so each one can refetch its own queries.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 32),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the dispatch loop. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// RelayBus forwards every bus event to the broadcast channel as JSON. Call it
// in its own goroutine.
func (h *Hub) RelayBus(bus *events.Bus) {
	for event := range bus.SubscribeAll() {
		message, err := json.Marshal(event)
		if err != nil {
			continue
		}
		select {
		case h.Broadcast <- message:
		default:
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		// Clients do not send anything meaningful; reading keeps the
		// connection alive and detects closure.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ServeWs upgrades an authenticated console connection. The token rides in a
// query parameter because browsers cannot set headers on websocket upgrades.
func ServeWs(hub *Hub, c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if _, err := middleware.ClaimsFromToken(token); err != nil {
		Sugar.Infow("websocket connection rejected", "error", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Sugar.Warnw("websocket upgrade failed", "error", err)
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
