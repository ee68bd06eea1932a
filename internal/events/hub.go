package events

import (
	"encoding/json"
	"log"

	"github.com/fivemhub/backend/internal/cache"
	"github.com/fivemhub/backend/internal/models"
)

// Hub fans moderation lifecycle events out to connected admin dashboards.
// Events arrive over Redis pub/sub so every instance behind a load balancer
// sees transitions made through any of them.
type Hub struct {
	redis      *cache.RedisClient
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub(redis *cache.RedisClient) *Hub {
	return &Hub{
		redis:      redis,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run starts the fan-out loop. Call in a goroutine.
func (h *Hub) Run() {
	if h.redis != nil {
		go h.consumeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

func (h *Hub) consumeRedis() {
	ps := h.redis.SubscribeToModerationEvents()
	defer ps.Close()

	log.Println("Admin event feed listening for moderation events")
	for msg := range ps.Channel() {
		h.broadcast <- []byte(msg.Payload)
	}
}

// Broadcast pushes an event directly to connected clients. Used when Redis
// is down so local dashboards still see local transitions.
func (h *Hub) Broadcast(event models.ModerationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		log.Println("Event feed buffer full, dropping event")
	}
	return nil
}
