package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/kliksy/kliksy-be/internal/models"
)

// Hub maintains the set of connected feed clients and broadcasts feed
// events to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// MemeCreated pushes a newly visible public meme to all feed clients.
func (h *Hub) MemeCreated(meme models.Meme) {
	h.publish(ActionMemeCreated, meme)
}

// MemePrivacyChanged pushes a visibility flip to all feed clients.
func (h *Hub) MemePrivacyChanged(memeID, oldPrivacy, newPrivacy string) {
	h.publish(ActionMemePrivacyChanged, map[string]string{
		"memeId":     memeID,
		"oldPrivacy": oldPrivacy,
		"newPrivacy": newPrivacy,
	})
}

// publish never blocks the caller: if the broadcast buffer is full the event
// is dropped, feed pushes are advisory.
func (h *Hub) publish(action string, payload interface{}) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode feed message")
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Warn().Str("action", action).Msg("Feed broadcast buffer full, dropping event")
	}
}
