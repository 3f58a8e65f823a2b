package sse

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
)

// Message is one notification pushed to a user's event subscription, e.g.
// a thread title landing after the summarizer runs.
type Message struct {
	UserID string `json:"-"`
	Event  string `json:"event"`
	Data   any    `json:"data,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	UserID   string
	Outbound chan Message
}

// Hub fans notifications out to the connected clients of a user on this
// instance. Cross-instance delivery goes through the redis bus, whose
// forwarder re-broadcasts into the local hub.
type Hub struct {
	mu      sync.RWMutex
	log     *logger.Logger
	clients map[string]map[*Client]bool
}

func NewHub(baseLog *logger.Logger) *Hub {
	return &Hub{
		log:     baseLog.With("component", "SSEHub"),
		clients: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, 10),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[userID] = set
	}
	set[client] = true
	h.log.Debug("SSE client registered", "client_id", client.ID, "user_id", userID)
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[client.UserID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	h.log.Debug("SSE client unregistered", "client_id", client.ID)
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if msg.UserID == "" {
		return
	}
	for c := range h.clients[msg.UserID] {
		select {
		case c.Outbound <- msg:
		default:
			h.log.Warn("Dropping SSE message; outbound buffer full", "client_id", c.ID)
		}
	}
}

// Serve streams a client's notifications until the request context ends.
// A periodic comment keeps intermediaries from timing the connection out.
func (h *Hub) Serve(ctx context.Context, w http.ResponseWriter, client *Client) error {
	writer, err := NewWriter(w)
	if err != nil {
		return err
	}
	defer writer.Close()
	writer.Comment("connected")

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-keepalive.C:
			writer.Comment("keepalive")
		case msg := <-client.Outbound:
			if err := writer.Event(msg.Event, msg.Data); err != nil {
				return err
			}
		}
	}
}
