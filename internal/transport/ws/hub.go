package ws

import (
	"encoding/json"
	"sync"

	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Topics a client may subscribe to
var Topics = map[string]bool{
	service.TopicAnswers:     true,
	service.TopicPredictions: true,
	service.TopicNouns:       true,
}

// Hub fans events out to the connections subscribed to each topic
type Hub struct {
	// topic -> connections
	topics map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	log *logger.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	Topic string
	Send  chan []byte
}

// NewConnection creates a subscriber with a buffered outbox
func NewConnection(topic string) *Connection {
	return &Connection{Topic: topic, Send: make(chan []byte, 256)}
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	Topic   string
	Message *Message
}

// NewHub creates a new WebSocket hub. Close stops it.
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		topics:     make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		log:        log.With("component", "ws.Hub"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.topics[conn.Topic] == nil {
				h.topics[conn.Topic] = make(map[*Connection]struct{})
			}
			h.topics[conn.Topic][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("subscriber connected", "topic", conn.Topic)

		case conn := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.topics[conn.Topic]; ok {
				if _, ok := subs[conn]; ok {
					delete(subs, conn)
					close(conn.Send)
					h.log.Debug("subscriber disconnected", "topic", conn.Topic)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Warn("failed to encode message", "topic", msg.Topic, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.topics[msg.Topic] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for topic, subs := range h.topics {
				for conn := range subs {
					close(conn.Send)
				}
				delete(h.topics, topic)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast queues an event for every subscriber of topic (implements
// service.Broadcaster). It never blocks; when the queue is full the event
// is dropped.
func (h *Hub) Broadcast(topic string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to encode payload", "topic", topic, "type", msgType, "error", err)
		return
	}
	msg := &BroadcastMessage{
		Topic:   topic,
		Message: &Message{Type: MessageType(msgType), Payload: data},
	}
	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast queue full, dropping event", "topic", topic, "type", msgType)
	}
}

// Subscribers counts the connections on topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close stops the hub and closes every subscriber outbox
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}
