package scene

import (
	"titan-siege/server/internal/detection"
	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/titan"
)

// Titan is a titan object in the level. Its accessors are unsynchronized and
// are meant for the simulation goroutine; other goroutines read Snapshot.
type Titan struct {
	id       string
	cfg      titan.Configuration
	kind     titan.Kind
	state    titan.State
	pose     gamemode.Pose
	target   string
	route    *titan.RushBehavior
	detector *detection.Detector
}

func (t *Titan) ID() string {
	return t.id
}

func (t *Titan) Position() geom.Vec3 {
	return t.pose.Position
}

func (t *Titan) Forward() geom.Vec3 {
	return t.pose.Rotation.Forward()
}

func (t *Titan) HasTarget() bool {
	return t.target != ""
}

// SetTarget locks the titan onto a hero and switches it to chasing.
func (t *Titan) SetTarget(actorID string) {
	t.target = actorID
	if actorID != "" && t.state != titan.StateDead {
		t.state = titan.StateChase
	}
}

func (t *Titan) Target() string {
	return t.target
}

func (t *Titan) Kind() titan.Kind {
	return t.kind
}

func (t *Titan) State() titan.State {
	return t.state
}

func (t *Titan) Configuration() titan.Configuration {
	return t.cfg
}

var _ detection.Agent = (*Titan)(nil)
