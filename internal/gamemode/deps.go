package gamemode

import (
	"context"
	"math/rand"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/random"
	"titan-siege/server/internal/session"
	"titan-siege/server/internal/telemetry"
	"titan-siege/server/internal/titan"
	"titan-siege/server/logging"
)

// Pose is a world position and facing.
type Pose struct {
	Position geom.Vec3     `json:"position"`
	Rotation geom.Rotation `json:"rotation"`
}

// Object is a snapshot of a tagged or named world object.
type Object struct {
	Name     string   `json:"name"`
	Tag      string   `json:"tag,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	Pose     Pose     `json:"pose"`
	Children []Object `json:"children,omitempty"`
}

// Child returns the direct child with the given name.
func (o Object) Child(name string) (Object, bool) {
	for _, child := range o.Children {
		if child.Name == name {
			return child, true
		}
	}
	return Object{}, false
}

// World answers tag and name queries and applies level mutations.
type World interface {
	FindByTag(tag string) []Object
	Find(name string) (Object, bool)
	SetActive(name string, active bool)
	Destroy(name string)
	Move(name string, pose Pose)
	Instantiate(ctx context.Context, prefab string, pose Pose) error
}

// AgentHandle identifies a spawned titan.
type AgentHandle struct {
	ID string
}

// Spawner creates titans. The engine never builds the agent itself.
type Spawner interface {
	SpawnTitan(ctx context.Context, pose Pose, cfg titan.Configuration) (AgentHandle, error)
}

// TitanStatus is the roster view of one titan object in the level.
type TitanStatus struct {
	ID    string
	Kind  titan.Kind
	State titan.State
}

// Roster lists the titan objects currently present in the level.
type Roster interface {
	Titans() []TitanStatus
}

// Session is the multiplayer session as seen by the engine.
type Session interface {
	IsOfflineMode() bool
	Participants() []session.Participant
	SetProperties(id int, props map[string]any)
	Broadcast(ctx context.Context, event string, payload any) error
}

// RoundController reloads the level after a restart.
type RoundController interface {
	Restart(ctx context.Context) error
}

// Deps bundles the collaborators injected into an engine.
type Deps struct {
	World     World
	Spawner   Spawner
	Roster    Roster
	Session   Session
	Rounds    RoundController
	Publisher logging.Publisher
	Logger    telemetry.Logger
	Tracer    trace.Tracer
	RNG       *rand.Rand
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = logging.NopPublisher()
	}
	if d.Logger == nil {
		d.Logger = telemetry.LoggerFunc(nil)
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer("titan-siege/gamemode")
	}
	if d.RNG == nil {
		d.RNG = random.New(random.DefaultSeed, "gamemode")
	}
	return d
}
