// Package feed pushes task change notifications to websocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
)

// Conn is the write side of a subscriber connection.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Subscriber is one connected websocket client.
type Subscriber struct {
	ID   string
	Conn Conn
}

// Hub fans task notifications out to every subscriber. All subscriber
// bookkeeping happens on the Run goroutine.
type Hub struct {
	subscribers map[string]*Subscriber
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan Notification
	done        chan struct{}
	mu          sync.RWMutex
	logger      types.Logger
}

// NewHub creates a new Hub.
func NewHub(logger types.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan Notification, 256),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every subscriber connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub.ID] = sub
			h.mu.Unlock()
			h.logger.Debug("Feed subscriber registered", "subscriber", sub.ID)
		case sub := <-h.unregister:
			h.mu.Lock()
			delete(h.subscribers, sub.ID)
			h.mu.Unlock()
			h.logger.Debug("Feed subscriber unregistered", "subscriber", sub.ID)
		case n := <-h.broadcast:
			h.send(n)
		}
	}
}

// Wait blocks until Run has returned.
func (h *Hub) Wait() {
	<-h.done
}

// Register adds a subscriber. It is a no-op once the hub has stopped.
func (h *Hub) Register(sub *Subscriber) {
	select {
	case h.register <- sub:
	case <-h.done:
	}
}

// Unregister removes a subscriber. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish queues a notification for every subscriber.
func (h *Hub) Publish(n Notification) {
	select {
	case h.broadcast <- n:
	case <-h.done:
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) send(n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to marshal feed notification", "type", n.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		if err := sub.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("Failed to send feed notification", "subscriber", sub.ID, "error", err)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subscribers {
		_ = sub.Conn.Close()
		delete(h.subscribers, id)
	}
}
