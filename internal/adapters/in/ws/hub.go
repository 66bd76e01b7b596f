// Package ws surfaces notifications to the waitress UI over websockets.
// Connections are grouped by waitress; a notification reaches every open
// connection of its target waitress.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tablesync/internal/core/domain/model/notification"
)

// ErrNoSubscriber is returned by Surface when the target waitress has no
// open connection. The notification stays unseen and is offered again.
var ErrNoSubscriber = errors.New("no websocket subscriber for waitress")

// Event is the JSON frame sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// NotificationPayload is the payload of a "notification" event.
type NotificationPayload struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId,omitempty"`
	Table     string    `json:"table"`
	Type      string    `json:"type"`
	Waitress  string    `json:"waitress"`
	CreatedAt time.Time `json:"createdAt"`
}

type envelope struct {
	waitress  string
	message   []byte
	delivered chan int
}

// Hub maintains the set of active clients per waitress.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws_hub"),
	}
}

// Run owns the rooms until ctx is cancelled. Start it with go hub.Run(ctx).
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for waitress, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, waitress)
			}
			return

		case client := <-h.register:
			if h.rooms[client.waitress] == nil {
				h.rooms[client.waitress] = make(map[*Client]bool)
			}
			h.rooms[client.waitress][client] = true
			h.logger.DebugContext(ctx, "Client connected", "waitress", client.waitress)

		case client := <-h.unregister:
			h.drop(client)

		case d := <-h.broadcast:
			sent := 0
			for client := range h.rooms[d.waitress] {
				select {
				case client.send <- d.message:
					sent++
				default:
					// slow client
					h.drop(client)
				}
			}
			d.delivered <- sent
		}
	}
}

// Surface sends n to its target waitress. It implements ports.NotificationSink.
func (h *Hub) Surface(ctx context.Context, n *notification.Notification) error {
	message, err := json.Marshal(Event{Type: "notification", Payload: NotificationPayload{
		ID:        n.ID().String(),
		OrderID:   n.OrderID(),
		Table:     n.Table(),
		Type:      n.Type().String(),
		Waitress:  n.TargetWaitress(),
		CreatedAt: n.CreatedAt(),
	}})
	if err != nil {
		return err
	}

	d := envelope{waitress: n.TargetWaitress(), message: message, delivered: make(chan int, 1)}
	select {
	case h.broadcast <- d:
	case <-h.done:
		return ErrNoSubscriber
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case sent := <-d.delivered:
		if sent == 0 {
			return ErrNoSubscriber
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) drop(client *Client) {
	clients, ok := h.rooms[client.waitress]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.waitress)
	}
}
