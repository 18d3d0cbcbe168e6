package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

type EntityKind string

const (
	EntityKindTitan    EntityKind = "titan"
	EntityKindHuman    EntityKind = "human"
	EntityKindGamemode EntityKind = "gamemode"
	EntityKindWorld    EntityKind = "world"
)

const (
	CategoryRound     = "round"
	CategorySpawn     = "spawn"
	CategoryDetection = "detection"
)

// Event is one structured record routed to every enabled sink.
type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

// WithFields decorates every event published through p with fields that the
// event does not already set.
func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := copyExtra(fields)
	return PublisherFunc(func(ctx context.Context, event Event) {
		p.Publish(ctx, mergeFields(event, copied))
	})
}

func mergeFields(event Event, fields map[string]any) Event {
	if len(fields) == 0 {
		return event
	}
	merged := event
	merged.Extra = copyExtra(event.Extra)
	if merged.Extra == nil {
		merged.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, set := merged.Extra[k]; !set {
			merged.Extra[k] = v
		}
	}
	return merged
}

func copyExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	copied := make(map[string]any, len(extra))
	for k, v := range extra {
		copied[k] = v
	}
	return copied
}

// Clone returns an event whose slices and maps are not shared with e.
func (e Event) Clone() Event {
	cloned := e
	if len(e.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), e.Targets...)
	}
	cloned.Extra = copyExtra(e.Extra)
	return cloned
}
