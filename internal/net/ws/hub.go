package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"titan-siege/server/internal/session"
	"titan-siege/server/internal/telemetry"
)

// ProtocolVersion is stamped on every server message.
const ProtocolVersion = 1

const defaultWriteTimeout = 5 * time.Second

type subscriber struct {
	conn           *websocket.Conn
	mu             sync.Mutex
	lastCommandSeq uint64
	writeTimeout   time.Duration
}

// WriteMessage serializes writes; gorilla connections allow one writer.
func (s *subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return s.conn.WriteMessage(messageType, data)
}

func (s *subscriber) LastCommandSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommandSeq
}

func (s *subscriber) StoreLastCommandSeq(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.lastCommandSeq {
		s.lastCommandSeq = seq
	}
}

// Hub fans messages out to connected participants.
type Hub struct {
	mu           sync.Mutex
	subscribers  map[int]*subscriber
	logger       telemetry.Logger
	writeTimeout time.Duration
}

func NewHub(logger telemetry.Logger) *Hub {
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	return &Hub{
		subscribers:  make(map[int]*subscriber),
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
	}
}

// Subscribe registers the connection for a participant, replacing and
// closing any previous one.
func (h *Hub) Subscribe(participant int, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn, writeTimeout: h.writeTimeout}
	h.mu.Lock()
	previous := h.subscribers[participant]
	h.subscribers[participant] = sub
	h.mu.Unlock()
	if previous != nil {
		previous.conn.Close()
	}
	return sub
}

// Unsubscribe removes the participant if conn is still its registered
// connection.
func (h *Hub) Unsubscribe(participant int, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.subscribers[participant]
	if !ok || sub.conn != conn {
		return false
	}
	delete(h.subscribers, participant)
	return true
}

// Subscribers lists connected participant ids in ascending order.
func (h *Hub) Subscribers() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type broadcastMessage struct {
	Ver     int    `json:"ver"`
	Type    string `json:"type"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	From    int    `json:"from"`
}

// Broadcast implements session.Broadcaster. The sender does not receive its
// own message.
func (h *Hub) Broadcast(ctx context.Context, msg session.Message) error {
	data, err := json.Marshal(broadcastMessage{
		Ver:     ProtocolVersion,
		Type:    "broadcast",
		Event:   msg.Event,
		Payload: msg.Payload,
		From:    msg.From,
	})
	if err != nil {
		return fmt.Errorf("encode broadcast %s: %w", msg.Event, err)
	}
	return h.send(ctx, data, msg.From)
}

// Publish sends a typed message to every connected participant.
func (h *Hub) Publish(ctx context.Context, messageType string, body any) error {
	data, err := json.Marshal(struct {
		Ver  int    `json:"ver"`
		Type string `json:"type"`
		Body any    `json:"body"`
	}{Ver: ProtocolVersion, Type: messageType, Body: body})
	if err != nil {
		return fmt.Errorf("encode %s: %w", messageType, err)
	}
	return h.send(ctx, data, 0)
}

func (h *Hub) send(ctx context.Context, data []byte, except int) error {
	h.mu.Lock()
	targets := make(map[int]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		if id != except {
			targets[id] = sub
		}
	}
	h.mu.Unlock()

	var errs []error
	for id, sub := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("[ws] write to participant %d failed: %v", id, err)
			errs = append(errs, fmt.Errorf("participant %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

var _ session.Broadcaster = (*Hub)(nil)
