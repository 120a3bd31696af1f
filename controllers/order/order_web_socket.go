package orderControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/adega-api/models"
)

const (
	// sendBuffer is how many broadcasts a console may fall behind before
	// it is dropped.
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

// Hub pushes every new order to the connected admin consoles. Broadcast
// never blocks on a console; each one has its own queue and writer.
type Hub struct {
	upgrader  websocket.Upgrader
	writeWait time.Duration

	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub accepts connections from the server's own host and from
// allowedOrigins.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = true
	}

	h := &Hub{writeWait: writeWait, clients: make(map[*client]bool)}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if allowed[strings.ToLower(origin)] {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
	return h
}

// GET /admin/orders/ws
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		h.add(cl)
		go h.write(cl)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(cl)
				break
			}
		}
		conn.Close()
	}
}

// write drains the client's queue until it is closed or a write fails.
func (h *Hub) write(cl *client) {
	defer cl.conn.Close()
	for data := range cl.send {
		if err := cl.conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
			return
		}
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("⚠️ Dropping order console: %v", err)
			h.remove(cl)
			return
		}
	}
}

// Broadcast queues the order as JSON for every client. A client whose
// queue is full is dropped.
func (h *Hub) Broadcast(order models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		log.Printf("❌ Failed to encode order %s for broadcast: %v", order.ID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			log.Printf("⚠️ Order console too slow, dropping it")
			h.drop(cl)
		}
	}
}

// Clients is the number of connected consoles.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	h.drop(cl)
	h.mu.Unlock()
}

// drop unregisters cl and closes its queue, which ends its writer. The
// caller holds h.mu.
func (h *Hub) drop(cl *client) {
	if h.clients[cl] {
		delete(h.clients, cl)
		close(cl.send)
	}
}
