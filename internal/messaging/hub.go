package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Event types pushed over the websocket
const (
	EventNewMessage  = "new_message"
	EventMutualMatch = "mutual_match"
	EventRead        = "conversation_read"
)

// Event is one websocket frame pushed to a connected user
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub maintains active websocket connections, one per user
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// A new connection replaces any previous one for the same user
	if old, exists := h.clients[client.userID]; exists {
		old.Close()
	}
	h.clients[client.userID] = client

	log.Printf("User %d connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.Close()
		delete(h.clients, client.userID)
		log.Printf("User %d disconnected. Total clients: %d", client.userID, len(h.clients))
	}
}

// SendToUser pushes an event to one user if they are connected. Events
// for offline users are dropped; they see the data on next fetch.
func (h *Hub) SendToUser(userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	h.clientsMux.RLock()
	client, online := h.clients[userID]
	h.clientsMux.RUnlock()

	if !online {
		return
	}

	select {
	case client.send <- data:
	default:
		// Slow consumer; drop the connection rather than block the hub
		h.unregister <- client
	}
}

// NotifyMutualMatch pushes a match event to both parties
func (h *Hub) NotifyMutualMatch(ctx context.Context, userID, matchedUserID int64) {
	for _, pair := range [][2]int64{{userID, matchedUserID}, {matchedUserID, userID}} {
		h.SendToUser(pair[0], Event{
			Type:    EventMutualMatch,
			Payload: map[string]int64{"matched_user_id": pair[1]},
		})
	}
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[int64]*Client)
}
