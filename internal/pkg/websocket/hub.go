package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notification event types pushed to connected administrators
const (
	EventUserRegistered  = "user.registered"
	EventStorySubmitted  = "story.submitted"
	EventDonationCreated = "donation.created"
	EventJobPosted       = "job.posted"
)

// Message is one notification sent over the socket
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of connected admin clients and fans notifications out to them
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run dispatches registrations and broadcasts until ctx is cancelled.
// On return every client's send channel is closed.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.logger.Info().
		Int64("userID", client.userID).
		Int("clientCount", len(h.clients)).
		Msg("Admin client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Info().
			Int64("userID", client.userID).
			Msg("Admin client unregistered")
	}
}

// broadcastMessage sends to every client; clients whose buffer is full are dropped
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Str("type", message.Type).Msg("Failed to marshal notification")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn().Int64("userID", client.userID).Msg("Dropped slow admin client")
		}
	}

	h.logger.Debug().
		Str("type", message.Type).
		Int("clientCount", len(h.clients)).
		Msg("Notification broadcast")
}

// Notify queues a notification for every connected admin.
// It never blocks the caller: when the hub is stopped or saturated the notification is dropped.
func (h *Hub) Notify(eventType string, data interface{}) {
	msg := &Message{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		h.logger.Warn().Str("type", eventType).Msg("Notification queue full, dropping")
	}
}

// ClientCount returns the number of connected admins
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
