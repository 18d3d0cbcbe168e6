// Package detection acquires targets for titans from the colliders currently
// overlapping their detection volume.
//
// The overlap set is maintained from trigger enter and exit events and is only
// consumed by a periodic cone test, never continuously.
package detection

import (
	"context"
	"time"

	"titan-siege/server/internal/geom"
	"titan-siege/server/logging"
	detectionlog "titan-siege/server/logging/detection"
)

// Agent is the titan that owns a detector.
type Agent interface {
	ID() string
	Position() geom.Vec3
	Forward() geom.Vec3
	HasTarget() bool
	SetTarget(actorID string)
}

// Actor is the top-level object a collider belongs to.
type Actor struct {
	ID       string
	Hero     bool
	Position geom.Vec3
}

// Resolver maps a collider to its root actor. ok is false for colliders that
// no longer exist.
type Resolver interface {
	ResolveCollider(colliderID string) (Actor, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(colliderID string) (Actor, bool)

func (f ResolverFunc) ResolveCollider(colliderID string) (Actor, bool) {
	if f == nil {
		return Actor{}, false
	}
	return f(colliderID)
}

// Config controls the check schedule and the cone.
type Config struct {
	// Authority is true when this participant owns the agent.
	Authority  bool
	FirstCheck time.Duration
	Interval   time.Duration
	// MaxAngle is the exclusive upper bound of the cone in degrees.
	MaxAngle float64
}

func DefaultConfig() Config {
	return Config{
		Authority:  true,
		FirstCheck: time.Second,
		Interval:   500 * time.Millisecond,
		MaxAngle:   100,
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if c.FirstCheck < 0 {
		c.FirstCheck = defaults.FirstCheck
	}
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.MaxAngle <= 0 {
		c.MaxAngle = defaults.MaxAngle
	}
	return c
}

// Detector tracks overlapping colliders for one agent and periodically tests
// them against the agent's forward cone.
type Detector struct {
	cfg       Config
	agent     Agent
	resolver  Resolver
	publisher logging.Publisher

	overlaps []string
	active   bool
	next     time.Duration
	checks   uint64
}

func New(cfg Config, agent Agent, resolver Resolver, publisher logging.Publisher) *Detector {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Detector{
		cfg:       cfg.normalized(),
		agent:     agent,
		resolver:  resolver,
		publisher: publisher,
	}
}

// Start schedules the first check. Detectors on a participant that does not
// own the agent never activate.
func (d *Detector) Start(now time.Duration) {
	if !d.cfg.Authority {
		return
	}
	d.active = true
	d.next = now + d.cfg.FirstCheck
}

// Stop cancels the periodic check.
func (d *Detector) Stop() {
	d.active = false
}

func (d *Detector) Active() bool {
	return d.active
}

// OnTriggerEnter adds the collider unless it is already tracked.
func (d *Detector) OnTriggerEnter(colliderID string) {
	for _, id := range d.overlaps {
		if id == colliderID {
			return
		}
	}
	d.overlaps = append(d.overlaps, colliderID)
}

// OnTriggerExit removes the collider; unknown colliders are ignored.
func (d *Detector) OnTriggerExit(colliderID string) {
	for i, id := range d.overlaps {
		if id == colliderID {
			d.overlaps = append(d.overlaps[:i], d.overlaps[i+1:]...)
			return
		}
	}
}

// Overlaps returns the tracked colliders in insertion order.
func (d *Detector) Overlaps() []string {
	return append([]string(nil), d.overlaps...)
}

// Update runs the check when it is due. Missed intervals are not replayed.
func (d *Detector) Update(ctx context.Context, now time.Duration) {
	if !d.active || now < d.next {
		return
	}
	for d.next <= now {
		d.next += d.cfg.Interval
	}
	d.Check(ctx)
}

// Check scans the overlap set and assigns the first hero strictly inside the
// cone. It reports the acquired actor.
func (d *Detector) Check(ctx context.Context) (string, bool) {
	d.checks++
	if d.agent == nil || d.resolver == nil || d.agent.HasTarget() {
		return "", false
	}
	origin := d.agent.Position()
	forward := d.agent.Forward()
	for _, colliderID := range d.overlaps {
		if colliderID == "" {
			continue
		}
		actor, ok := d.resolver.ResolveCollider(colliderID)
		if !ok || !actor.Hero {
			continue
		}
		angle := geom.Angle(forward, actor.Position.Sub(origin))
		if angle > 0 && angle < d.cfg.MaxAngle {
			d.agent.SetTarget(actor.ID)
			detectionlog.TargetAcquired(ctx, d.publisher, d.checks, d.agent.ID(), actor.ID, angle)
			return actor.ID, true
		}
	}
	return "", false
}
