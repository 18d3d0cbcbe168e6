// Package session tracks the participants of a multiplayer session and
// relays authority broadcasts to the others.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Participant is a member of the session with its custom properties.
type Participant struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// Message is a broadcast from one participant to the rest of the session.
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	From    int    `json:"from"`
}

// Broadcaster delivers messages to every participant except the sender.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg Message) error
}

// Receiver handles a broadcast arriving at this participant.
type Receiver func(ctx context.Context, msg Message)

var ErrUnknownParticipant = errors.New("unknown participant")

// Room is the in-process session. It is safe for concurrent use because
// transports join and leave from their own goroutines.
type Room struct {
	mu           sync.RWMutex
	offline      bool
	localID      int
	authorityID  int
	nextID       int
	participants map[int]*Participant
	broadcaster  Broadcaster
	receivers    []Receiver
}

type RoomConfig struct {
	Offline     bool
	Broadcaster Broadcaster
}

// NewRoom creates a session whose local participant is the first to join.
func NewRoom(cfg RoomConfig) *Room {
	return &Room{
		offline:      cfg.Offline,
		nextID:       1,
		participants: make(map[int]*Participant),
		broadcaster:  cfg.Broadcaster,
	}
}

// SetBroadcaster replaces the outgoing transport.
func (r *Room) SetBroadcaster(b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcaster = b
}

func (r *Room) IsOfflineMode() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.offline
}

// Join adds a participant and returns a snapshot of it.
func (r *Room) Join(name string) Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	if r.localID == 0 {
		r.localID = id
	}
	p := &Participant{ID: id, Name: name, Properties: make(map[string]any)}
	r.participants[id] = p
	return snapshot(p)
}

func (r *Room) Leave(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, id)
	if r.authorityID == id {
		r.authorityID = 0
	}
}

// SetAuthority marks id as the participant whose broadcasts are trusted.
func (r *Room) SetAuthority(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorityID = id
}

// Authority is the participant that owns round state. It is the local
// participant unless another one was marked with SetAuthority.
func (r *Room) Authority() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.authorityID != 0 {
		return r.authorityID
	}
	return r.localID
}

// LocalID is the participant running this process.
func (r *Room) LocalID() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.localID
}

// Participants returns snapshots ordered by id.
func (r *Room) Participants() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		list = append(list, snapshot(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *Room) Participant(id int) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return Participant{}, false
	}
	return snapshot(p), true
}

// SetProperties merges props into the participant's custom properties.
// Unknown ids are ignored.
func (r *Room) SetProperties(id int, props map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return
	}
	for k, v := range props {
		p.Properties[k] = v
	}
}

// Broadcast sends the event to every other participant. Offline sessions and
// sessions without a transport drop it.
func (r *Room) Broadcast(ctx context.Context, event string, payload any) error {
	r.mu.RLock()
	b, offline, from := r.broadcaster, r.offline, r.localID
	r.mu.RUnlock()
	if offline || b == nil {
		return nil
	}
	return b.Broadcast(ctx, Message{Event: event, Payload: payload, From: from})
}

// OnReceive registers a handler for broadcasts arriving from the authority.
func (r *Room) OnReceive(fn Receiver) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receivers = append(r.receivers, fn)
}

// Deliver hands an incoming broadcast to the registered receivers.
func (r *Room) Deliver(ctx context.Context, msg Message) {
	r.mu.RLock()
	receivers := append([]Receiver(nil), r.receivers...)
	r.mu.RUnlock()
	for _, fn := range receivers {
		fn(ctx, msg)
	}
}

func snapshot(p *Participant) Participant {
	props := make(map[string]any, len(p.Properties))
	for k, v := range p.Properties {
		props[k] = v
	}
	return Participant{ID: p.ID, Name: p.Name, Properties: props}
}
