package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"retailpro/middleware"
	"retailpro/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

type broadcastMsg struct {
	UserID string
	Data   []byte
}

// Hub fans order notifications out to every open socket of a user.
type Hub struct {
	users      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.users[c.UserID] == nil {
				h.users[c.UserID] = make(map[*Client]bool)
			}
			h.users[c.UserID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.users[c.UserID]; conns != nil {
				// the broadcast branch may have dropped this client
				// already; Send must be closed exactly once
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.Send)
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.users[m.UserID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.users[m.UserID], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// outboundPayload is what we push to every socket of the order's owner:
type outboundPayload struct {
	Type      string `json:"type"`
	OrderID   string `json:"orderId"`
	OldStatus string `json:"oldStatus,omitempty"`
	NewStatus string `json:"newStatus"`
	Timestamp int64  `json:"timestamp"`
}

// Notify delivers an order event to the owning user's open sockets.
func (h *Hub) Notify(userID string, ev models.OrderEvent) {
	out := outboundPayload{
		Type:      "order-status",
		OrderID:   ev.OrderID,
		OldStatus: ev.OldStatus,
		NewStatus: ev.NewStatus,
		Timestamp: ev.Timestamp.Unix(),
	}
	data, err := json.Marshal(out)
	if err != nil {
		log.Println("notify marshal:", err)
		return
	}
	h.broadcast <- broadcastMsg{UserID: userID, Data: data}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler authenticates the caller and attaches their socket
// to the hub. The token comes as a query parameter because browsers
// cannot set headers on websocket dials.
func WebSocketHandler(hub *Hub, auth *middleware.Auth) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = r.Header.Get("Authorization")
		}
		claims, err := auth.ValidateJWT(token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			UserID: claims.UserID,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Clients do not send anything meaningful; the read loop only exists
// to detect closes and answer pings.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
		c.Conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	}
}
