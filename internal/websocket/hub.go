package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"onboarding-buddy-be/internal/constant"
	"onboarding-buddy-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var ErrClientNotFound = errors.New("websocket client not found")

// clusterMessage is what travels over the redis channel between instances.
type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

type Hub struct {
	// Connected clients keyed by connection id.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance broadcasts. Nil when running alone.
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, instanceID string, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
		rdb:        rdb,
		instanceID: instanceID,
		logger:     log,
	}
}

// Run serves register/unregister requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client connected", map[string]interface{}{"connection_id": client.ID})

		case client := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.clients[client.ID]; ok && existing == client {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client disconnected", map[string]interface{}{
				"connection_id": client.ID,
				"session_id":    client.SessionID(),
			})
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendFrame delivers a frame to one local connection.
func (h *Hub) SendFrame(connectionID, frameType string, data any) error {
	payload, err := EncodeFrame(frameType, data)
	if err != nil {
		return err
	}

	h.mu.RLock()
	client, ok := h.clients[connectionID]
	delivered := ok && client.enqueue(payload)
	h.mu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}
	if !delivered {
		h.drop(client)
	}
	return nil
}

// BroadcastSystemNotification sends a notice to every client here and, through
// redis, on every other instance.
func (h *Hub) BroadcastSystemNotification(message, notificationType string) {
	payload, err := EncodeFrame(FrameSystemNotification, SystemNotification{
		Message:   message,
		Type:      notificationType,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode system notification", map[string]interface{}{"error": err.Error()})
		return
	}

	delivered := h.broadcastLocal(payload)
	h.logger.Info("Hub", "System notification broadcast", map[string]interface{}{
		"type":    notificationType,
		"clients": delivered,
	})

	if h.rdb != nil {
		clusterPayload, _ := json.Marshal(clusterMessage{Origin: h.instanceID, Message: payload})
		if err := h.rdb.Publish(context.Background(), constant.HubClusterChannel, clusterPayload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish to cluster channel", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) broadcastLocal(payload []byte) int {
	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for _, client := range h.clients {
		if client.enqueue(payload) {
			delivered++
		} else {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.drop(client)
	}
	return delivered
}

// drop disconnects a client whose send buffer is full.
func (h *Hub) drop(client *Client) {
	h.logger.Warn("Hub", "Client send buffer full, disconnecting", map[string]interface{}{"connection_id": client.ID})
	go h.Unregister(client)
}

// Register adds a client. It returns false once the hub has stopped.
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

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, constant.HubClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Failed to parse cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.broadcastLocal(payload.Message)
		}
	}
}
