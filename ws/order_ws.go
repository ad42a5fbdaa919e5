package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/SinaAfzali/elite-bite/notify"
	"github.com/SinaAfzali/elite-bite/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// OrderHub pushes order updates to the customer's open websocket connections.
// Run only routes messages; each connection has its own writer goroutine, so a
// slow socket never holds up the others.
type OrderHub struct {
	clients    map[uint]map[*client]bool // userID -> connections
	broadcast  chan notify.Event
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex
	log        *slog.Logger
}

type client struct {
	conn   *websocket.Conn
	userID uint
	send   chan message
}

// message is what a client receives.
type message struct {
	Kind        notify.Kind `json:"kind"`
	OrderID     uint        `json:"orderId"`
	Status      string      `json:"status"`
	StatusLabel string      `json:"statusLabel,omitempty"`
	WaitMinutes int         `json:"waitMinutes,omitempty"`
	OccurredAt  time.Time   `json:"occurredAt"`
}

func NewOrderHub(log *slog.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*client]bool),
		broadcast:  make(chan notify.Event, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves register/unregister/broadcast until ctx is done, then closes
// every connection.
func (h *OrderHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.clients {
				for c := range conns {
					h.drop(c)
				}
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]bool)
			}
			h.clients[c.userID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			msg := message{
				Kind: ev.Kind, OrderID: ev.OrderID, Status: string(ev.Status),
				StatusLabel: ev.StatusLabel, WaitMinutes: ev.WaitMinutes, OccurredAt: ev.OccurredAt,
			}
			h.mu.Lock()
			for c := range h.clients[ev.UserID] {
				select {
				case c.send <- msg:
				default:
					h.log.Warn("ws client too slow, dropping", "user_id", ev.UserID)
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held. Closing send stops the writer, which
// closes the socket.
func (h *OrderHub) drop(c *client) {
	conns := h.clients[c.userID]
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
}

// Connections reports how many sockets userID has open.
func (h *OrderHub) Connections(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Notify queues ev for the recipient's sockets. Payment codes are never sent
// over the socket.
func (h *OrderHub) Notify(ctx context.Context, ev notify.Event) error {
	if ev.Kind == notify.PaymentCodeIssued || ev.UserID == 0 {
		return nil
	}
	select {
	case h.broadcast <- ev:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket serves GET /ws/orders; WSAuthMiddleware has already set the
// user.
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade error", "err", err)
		return
	}

	cl := &client{conn: conn, userID: userID, send: make(chan message, sendBuffer)}
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}
	go h.write(cl)
	go h.listen(cl)
}

// write sends queued messages until send is closed or a write fails.
func (h *OrderHub) write(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.log.Warn("ws write error", "user_id", c.userID, "err", err)
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// listen discards client frames and unregisters on the first read error.
func (h *OrderHub) listen(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
