package hostapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// MaxEventStreamConnectionsTotal bounds total concurrent subscribers.
	MaxEventStreamConnectionsTotal = 500

	// MaxEventStreamConnectionsPerIP bounds subscribers from one client IP.
	MaxEventStreamConnectionsPerIP = 10
)

// AllowedOrigins lists origins permitted to open an event-stream
// connection. Grounded on the teacher's ratelimit.go allow-list, trimmed
// to this project's own hosts.
var AllowedOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
	"http://localhost:8080",
}

// IsAllowedOrigin reports whether origin may open an event-stream
// connection.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	if len(origin) >= len("http://localhost") && origin[:len("http://localhost")] == "http://localhost" {
		return true
	}
	for _, allowed := range AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("event-stream connection rejected from origin: %s", origin)
		recordConnectionRejected("origin")
		return false
	},
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// EventStreamHub pushes each tick's drained events to every subscribed
// client, with per-IP and total connection caps (spec §4's "GET
// /events/stream upgrades to a websocket and pushes each tick's drained
// events as they occur"). Grounded on the teacher's WebSocketHub.
type EventStreamHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	limiter *WebSocketRateLimiter
}

// NewEventStreamHub creates a hub with connection limiting.
func NewEventStreamHub() *EventStreamHub {
	return &EventStreamHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		limiter:    NewWebSocketRateLimiter(MaxEventStreamConnectionsPerIP),
	}
}

// Run drives the hub's register/unregister/broadcast loop. Call it once
// from its own goroutine.
func (h *EventStreamHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()
			updateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.limiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()
			updateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				targets = append(targets, conn)
			}
			h.mu.RUnlock()
			for _, conn := range targets {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.unregister <- conn
				}
			}
			incrementWSMessages()
		}
	}
}

// BroadcastEvents pushes a batch of drained events to every subscriber as
// one JSON frame.
func (h *EventStreamHub) BroadcastEvents(events interface{}) {
	payload, err := json.Marshal(map[string]interface{}{"events": events})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// backpressure: drop rather than block the tick loop
	}
}

// ClientCount returns the number of connected subscribers.
func (h *EventStreamHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleEventStream upgrades the request to a WebSocket, subject to the
// total and per-IP connection caps.
func (h *EventStreamHub) HandleEventStream(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	h.mu.RLock()
	total := len(h.clients)
	h.mu.RUnlock()
	if total >= MaxEventStreamConnectionsTotal {
		recordConnectionRejected("ws_total_limit")
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.limiter.Allow(ip) {
		recordConnectionRejected("ws_ip_limit")
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.limiter.Release(ip)
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			// the event stream is push-only; inbound frames are drained
			// and discarded to keep the read pump alive for close
			// detection.
		}
	}()
}

// tickLoop drives engine.Tick on a fixed schedule and broadcasts the
// resulting events, stopping when stop is closed.
func tickLoop(hub *EventStreamHub, engine Engine, rate time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			engine.Tick(rate.Seconds())
			events := engine.DrainEvents()
			if len(events) > 0 && hub.ClientCount() > 0 {
				hub.BroadcastEvents(events)
			}
		}
	}
}
