package ws

import (
	"context"
	"encoding/json"

	"chatz/internal/message"
	"chatz/pkg/identity"
	"chatz/pkg/logger"
)

var _ message.Publisher = (*Hub)(nil)

// Event is what subscribers receive for every stored message.
type Event struct {
	Type      string  `json:"type"`
	ChannelID *uint64 `json:"channel_id"`
	Payload   any     `json:"payload"`
}

// Membership is consulted on every delivery, so a client stops receiving
// a channel's events as soon as it leaves.
type Membership interface {
	IsMember(ctx context.Context, channelID uint64, principal identity.Principal) (bool, error)
}

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Events published by the message usecases.
	broadcast chan Event

	register   chan *Client
	unregister chan *Client

	// Closed once Run returns.
	done chan struct{}

	members Membership
	logger  logger.Logger
}

func NewHub(members Membership, logger logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		members:    members,
		logger:     logger,
	}
}

// Publish queues an event without blocking. Events are dropped when the
// queue is full.
func (h *Hub) Publish(channelID *uint64, kind string, payload any) {
	select {
	case h.broadcast <- Event{Type: kind, ChannelID: channelID, Payload: payload}:
	default:
		h.logger.Warn("ws: broadcast queue full, dropping event", "type", kind)
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case ev := <-h.broadcast:
			h.deliver(ctx, ev)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, ev Event) {
	msgBytes, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("ws: marshal event", "type", ev.Type, "error", err)
		return
	}

	for client := range h.clients {
		if ev.ChannelID != nil {
			ok, err := h.members.IsMember(ctx, *ev.ChannelID, client.principal)
			if err != nil {
				h.logger.Warn("ws: membership check failed", "client", client.id, "channel_id", *ev.ChannelID, "error", err)
				continue
			}
			if !ok {
				continue
			}
		}

		select {
		case client.send <- msgBytes:
		default:
			h.logger.Warn("ws: client too slow, disconnecting", "client", client.id)
			h.drop(client)
		}
	}
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}
