package server

import (
	"context"
	"encoding/json"

	"github.com/Muostafa/Chat-app-system-sub001/internal/logs"
	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
)

// hubSeqScope is the reserved counter scope ordering hub event envelopes.
const hubSeqScope = "events:hub"

// Hub fans out entity-created events to subscribed WebSocket clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan Message
	counters   seq.CounterStore
}

func NewHub(counters seq.CounterStore) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Message, 256),
		counters:   counters,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			logs.Logger.Infof("subscriber joined (%d total)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logs.Logger.Infof("subscriber left (%d remaining)", len(h.clients))
			}

		case msg := <-h.events:
			h.broadcast(ctx, msg)
		}
	}
}

// Publish queues an event for broadcast. Never blocks the request path; if
// the hub's queue is full the event is dropped.
func (h *Hub) Publish(msgType string, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		logs.Logger.Warningf("creating %s event: %v", msgType, err)
		return
	}
	select {
	case h.events <- msg:
	default:
		logs.Logger.Warningf("event queue full, dropping %s", msgType)
	}
}

func (h *Hub) broadcast(ctx context.Context, msg Message) {
	n, err := h.counters.Increment(ctx, hubSeqScope)
	if err != nil {
		logs.Logger.Warningf("sequencing event: %v", err)
		return
	}
	msg.Seq = n

	data, err := json.Marshal(msg)
	if err != nil {
		logs.Logger.Warningf("marshalling event: %v", err)
		return
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}
