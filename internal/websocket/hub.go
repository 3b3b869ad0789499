package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected dashboards and broadcasts signup events to them.
// Only the Run goroutine touches the client set.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every client.
	broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	done    chan bool
	stopped chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan bool),
		stopped:    make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			log.Info().Msg("Websocket hub stopped")
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Dashboard connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Dashboard disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; drop it rather than stall the feed.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Stop halts the hub and closes every client's send channel.
func (h *Hub) Stop() {
	select {
	case <-h.stopped:
		return
	case h.done <- true:
	}
	<-h.stopped
}

// Publish queues action with payload for every connected client. It never
// blocks; if the hub is backed up the message is dropped.
func (h *Hub) Publish(action string, payload interface{}) {
	msg, err := NewMessage(action, payload)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Str("action", action).Msg("Websocket hub busy, message dropped")
	}
}

// Register and Unregister block on the Run loop; these helpers give up once the hub is stopped.
func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.stopped:
	}
}
