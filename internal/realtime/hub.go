package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type Event string

// Notification feed events. One SSE channel per user id; the client renders
// these as ephemeral alerts.
const (
	EventConnectionRequested Event = "ConnectionRequested"
	EventConnectionAccepted  Event = "ConnectionAccepted"
	EventConnectionRejected  Event = "ConnectionRejected"
	EventMessageReceived     Event = "MessageReceived"
)

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

// UserChannel names the per-user notification channel.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Message
	done     chan struct{}
}

type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Subscribe(client *Client, channel string) {
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscriptions[channel]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[channel] = clients
	}
	clients[client] = true
	h.log.Debug("SSE client subscribed", "clientID", client.ID, "channel", channel)
}

func (h *Hub) Broadcast(msg Message) {
	if msg.Channel == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subscriptions[msg.Channel] {
		select {
		case c.Outbound <- msg:
		default:
			h.log.Warn("Dropping SSE message; outbound buffer full", "clientID", c.ID)
		}
	}
}

func (h *Hub) CloseClient(client *Client) {
	h.mu.Lock()
	for ch, clients := range h.subscriptions {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscriptions, ch)
		}
	}
	h.mu.Unlock()

	close(client.done)
	close(client.Outbound)
}

// ServeHTTP streams the client's outbound messages as SSE frames until the
// request context ends or the client is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				h.log.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
