package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/engine"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// clientBuffer is how many events may queue for a slow client before new
// events are dropped for it.
const clientBuffer = 64

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event is the JSON message sent to websocket clients for each frame.
type Event struct {
	Frame      int             `json:"frame"`
	Timestamp  int64           `json:"timestamp"`
	Paused     bool            `json:"paused"`
	Hand       bool            `json:"hand"`
	Gesture    string          `json:"gesture,omitempty"`
	Suppressed string          `json:"suppressed,omitempty"`
	Drag       bool            `json:"drag"`
	Cursor     *EventPoint     `json:"cursor,omitempty"`
	Actions    []action.Action `json:"actions,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// EventPoint is a smoothed cursor position in screen pixels.
type EventPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewEvent converts an engine frame to its wire form.
func NewEvent(f engine.Frame) Event {
	e := Event{
		Frame:     f.Index,
		Timestamp: f.Time.UnixMilli(),
		Paused:    f.Paused,
		Hand:      f.Result.Hand,
		Drag:      f.Result.Decision.Drag,
		Actions:   f.Result.Actions,
	}
	if f.Result.Fired != gesture.ClassNone {
		e.Gesture = f.Result.Fired.String()
	}
	if f.Result.Suppressed != gesture.ClassNone {
		e.Suppressed = f.Result.Suppressed.String()
	}
	if f.Result.Moved {
		e.Cursor = &EventPoint{X: f.Result.Cursor.X, Y: f.Result.Cursor.Y}
	}
	if f.DispatchErr != nil {
		e.Error = f.DispatchErr.Error()
	}
	return e
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frame events out to websocket clients. Observe never blocks:
// a client whose buffer is full misses events.
type Hub struct {
	clients map[*client]bool
	mu      sync.RWMutex
	dropped int
	logger  zerolog.Logger
}

// NewHub creates a hub with no clients.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		logger:  logger.With().Str("component", "hub").Logger(),
	}
}

// Observe publishes f to every connected client.
func (h *Hub) Observe(f engine.Frame) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	msg, err := json.Marshal(NewEvent(f))
	if err != nil {
		h.logger.Warn().Err(err).Msg("encoding frame event")
		return
	}
	h.Broadcast(msg)
}

// Broadcast queues msg for every client without waiting.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("client connected")

	done := make(chan struct{})
	go h.writePump(c, done)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	<-done
	conn.Close()
	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("client disconnected")
}

func (h *Hub) writePump(c *client, done chan<- struct{}) {
	defer close(done)
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			// drain until the reader notices the closed connection
			for range c.send {
			}
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		c.conn.Close()
	}
}
