// README: WebSocket hub broadcasting ride updates to connected clients.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"ridebroker/internal/modules/ride"
	"ridebroker/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients connect from app webviews; origin policy is enforced
	// upstream at the gateway.
	CheckOrigin: func(*http.Request) bool { return true },
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	log        *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.New()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set; all membership changes and broadcasts go through
// this loop. Blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.log.WithField("clients", len(h.clients)).Debug("ws client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.count.Store(int64(len(h.clients)))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// slow consumer; drop it rather than stall the hub
					delete(h.clients, client)
					close(client.send)
					h.count.Store(int64(len(h.clients)))
				}
			}

		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.count.Store(0)
			return
		}
	}
}

// RideUpdated implements ride.Notifier. Never blocks the lifecycle caller:
// if the broadcast buffer is full the update is dropped and logged.
func (h *Hub) RideUpdated(rideID types.ID, status ride.Status, snapshot *ride.Ride) {
	b, err := json.Marshal(Event{Type: eventType, RideID: rideID, Status: status, Ride: snapshot})
	if err != nil {
		h.log.WithError(err).Error("marshal ride update")
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.log.WithField("ride_id", rideID).Warn("ws broadcast buffer full, update dropped")
	}
}

func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64)}
	select {
	case h.register <- client:
	case <-h.done:
		// hub already stopped; nothing will ever drain register
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
