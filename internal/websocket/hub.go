package websocket

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

type delivery struct {
	payload []byte
	targets []string
	all     bool
}

// Hub owns the set of live connections and serialises every outbound frame
// through its run loop, so each client sees events in the order they were
// produced.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	outbound   chan delivery
	shutdown   chan struct{}
	done       chan struct{}
	once       sync.Once
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan delivery, 256),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.shutdown:
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.send)
			}
			h.count.Store(0)
			return

		case client := <-h.register:
			if old, ok := h.clients[client.ID()]; ok {
				close(old.send)
			}
			h.clients[client.ID()] = client
			h.count.Store(int64(len(h.clients)))
			logger.Debug("Connection %s registered. Total connections: %d", client.ID(), len(h.clients))

		case client := <-h.unregister:
			if current, ok := h.clients[client.ID()]; ok && current == client {
				h.drop(client)
				logger.Debug("Connection %s unregistered. Total connections: %d", client.ID(), len(h.clients))
			}

		case d := <-h.outbound:
			h.deliver(d)
		}
	}
}

// Register blocks until the run loop accepts client, or returns false once
// the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Send delivers ev to the listed connections; unknown ids are skipped.
func (h *Hub) Send(ev models.Event, connectionIDs ...string) {
	if len(connectionIDs) == 0 {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Error marshaling %s event: %v", ev.Type, err)
		return
	}
	h.enqueue(delivery{payload: payload, targets: connectionIDs})
}

// Broadcast delivers ev to every live connection.
func (h *Hub) Broadcast(ev models.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Error marshaling %s event: %v", ev.Type, err)
		return
	}
	h.enqueue(delivery{payload: payload, all: true})
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.outbound <- d:
	case <-h.done:
	}
}

func (h *Hub) deliver(d delivery) {
	if d.all {
		for _, client := range h.clients {
			h.push(client, d.payload)
		}
		return
	}
	for _, id := range d.targets {
		if client, ok := h.clients[id]; ok {
			h.push(client, d.payload)
		}
	}
}

// push drops a client whose buffer is full rather than stall everyone else.
func (h *Hub) push(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		logger.Warn("Connection %s send buffer full, dropping it", client.ID())
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client.ID())
	close(client.send)
	h.count.Store(int64(len(h.clients)))
}

func (h *Hub) ConnectionCount() int {
	return int(h.count.Load())
}

// Shutdown stops the run loop and closes every client's send channel, which
// makes their write pumps send a close frame.
func (h *Hub) Shutdown() {
	h.once.Do(func() { close(h.shutdown) })
	<-h.done
}

func (h *Hub) Done() <-chan struct{} {
	return h.done
}
