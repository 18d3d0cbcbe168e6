// Package scene is the headless level the server simulates: tagged objects,
// the titan roster, connected heroes and the detection volumes that feed
// target acquisition.
package scene

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"titan-siege/server/internal/detection"
	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/titan"
	"titan-siege/server/logging"
)

const heroColliderSuffix = "/body"

// Config tunes the headless level.
type Config struct {
	// DetectionRadius is the detection volume radius of a size 1 titan.
	DetectionRadius float64
	// ReachRadius is how close a route follower must get to a checkpoint.
	ReachRadius float64
	Detection   detection.Config
}

func DefaultConfig() Config {
	return Config{
		DetectionRadius: 40,
		ReachRadius:     5,
		Detection:       detection.DefaultConfig(),
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if c.DetectionRadius <= 0 {
		c.DetectionRadius = defaults.DetectionRadius
	}
	if c.ReachRadius <= 0 {
		c.ReachRadius = defaults.ReachRadius
	}
	return c
}

type hero struct {
	id       string
	position geom.Vec3
}

// World implements the gamemode World, Spawner and Roster collaborators.
type World struct {
	mu        sync.RWMutex
	cfg       Config
	layout    Layout
	publisher logging.Publisher

	objects  []gamemode.Object
	inactive map[string]bool
	titans   []*Titan
	heroes   map[string]*hero
	nextID   int
	now      time.Duration
}

func New(cfg Config, layout Layout, publisher logging.Publisher) *World {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w := &World{
		cfg:       cfg.normalized(),
		layout:    layout,
		publisher: publisher,
		heroes:    make(map[string]*hero),
	}
	w.loadLocked()
	return w
}

func (w *World) loadLocked() {
	w.objects = append([]gamemode.Object(nil), w.layout.Objects...)
	w.inactive = make(map[string]bool)
	w.titans = nil
}

// Name is the layout name.
func (w *World) Name() string {
	return w.layout.Name
}

// Reset reloads the layout and clears every titan. Heroes stay connected.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loadLocked()
}

func (w *World) FindByTag(tag string) []gamemode.Object {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var found []gamemode.Object
	for _, object := range w.objects {
		if object.Tag == tag && !w.inactive[object.Name] {
			found = append(found, object)
		}
	}
	return found
}

func (w *World) Find(name string) (gamemode.Object, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := w.indexLocked(name)
	if i < 0 {
		return gamemode.Object{}, false
	}
	return w.objects[i], true
}

func (w *World) indexLocked(name string) int {
	for i, object := range w.objects {
		if object.Name == name {
			return i
		}
	}
	return -1
}

func (w *World) SetActive(name string, active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if active {
		delete(w.inactive, name)
		return
	}
	w.inactive[name] = true
}

func (w *World) Destroy(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.indexLocked(name); i >= 0 {
		w.objects = append(w.objects[:i], w.objects[i+1:]...)
	}
	delete(w.inactive, name)
}

func (w *World) Move(name string, pose gamemode.Pose) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.indexLocked(name); i >= 0 {
		w.objects[i].Pose = pose
	}
}

// Instantiate places a prefab. The colossal prefab joins the roster as a
// boss; anything else becomes a plain object.
func (w *World) Instantiate(_ context.Context, prefab string, pose gamemode.Pose) error {
	if prefab == "" {
		return fmt.Errorf("instantiate: empty prefab name")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if prefab == gamemode.PrefabColossal {
		w.nextID++
		w.titans = append(w.titans, &Titan{
			id:    "colossal-" + strconv.Itoa(w.nextID),
			kind:  titan.KindColossal,
			state: titan.StateIdle,
			pose:  pose,
		})
		return nil
	}
	w.objects = append(w.objects, gamemode.Object{Name: prefab, Pose: pose})
	return nil
}

// SpawnTitan adds a mindless titan with its own detector. Detection starts
// immediately on the authority.
func (w *World) SpawnTitan(_ context.Context, pose gamemode.Pose, cfg titan.Configuration) (gamemode.AgentHandle, error) {
	if !cfg.Type.Valid() {
		return gamemode.AgentHandle{}, fmt.Errorf("spawn titan: invalid archetype %d", cfg.Type)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	t := &Titan{
		id:    "titan-" + strconv.Itoa(w.nextID),
		cfg:   cfg,
		kind:  titan.KindMindless,
		state: titan.StateIdle,
		pose:  pose,
	}
	for _, behavior := range cfg.Behaviors {
		if rush, ok := behavior.(*titan.RushBehavior); ok {
			t.route = rush
			t.state = titan.StateWandering
		}
	}
	t.detector = detection.New(w.cfg.Detection, t, detection.ResolverFunc(w.resolveLocked), w.publisher)
	t.detector.Start(w.now)
	w.titans = append(w.titans, t)
	return gamemode.AgentHandle{ID: t.id}, nil
}

// Titans lists every titan object in the level, dead or alive.
func (w *World) Titans() []gamemode.TitanStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	statuses := make([]gamemode.TitanStatus, 0, len(w.titans))
	for _, t := range w.titans {
		statuses = append(statuses, gamemode.TitanStatus{ID: t.id, Kind: t.kind, State: t.state})
	}
	return statuses
}

// Titan returns the titan with the given id.
func (w *World) Titan(id string) (*Titan, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range w.titans {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// KillTitan marks a titan dead. The corpse stays on the roster until Reset.
func (w *World) KillTitan(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.titans {
		if t.id == id && t.state != titan.StateDead {
			t.state = titan.StateDead
			t.target = ""
			if t.detector != nil {
				t.detector.Stop()
			}
			return true
		}
	}
	return false
}

// AddHero places or moves a player-controlled actor.
func (w *World) AddHero(id string, position geom.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.heroes[id] = &hero{id: id, position: position}
}

func (w *World) MoveHero(id string, position geom.Vec3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, ok := w.heroes[id]
	if ok {
		h.position = position
	}
	return ok
}

// RemoveHero drops the actor. Its collider is released on the next overlap
// refresh.
func (w *World) RemoveHero(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.heroes, id)
}

// HeroCollider is the collider id registered for a hero.
func HeroCollider(id string) string {
	return id + heroColliderSuffix
}

// resolveLocked must run with w.mu held.
func (w *World) resolveLocked(colliderID string) (detection.Actor, bool) {
	id, ok := strings.CutSuffix(colliderID, heroColliderSuffix)
	if !ok {
		return detection.Actor{}, false
	}
	h, ok := w.heroes[id]
	if !ok {
		return detection.Actor{}, false
	}
	return detection.Actor{ID: h.id, Hero: true, Position: h.position}, true
}

// Update advances route followers, refreshes detection volumes and runs due
// detector checks.
func (w *World) Update(ctx context.Context, now time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	dt := (now - w.now).Seconds()
	if dt < 0 {
		dt = 0
	}
	w.now = now
	for _, t := range w.titans {
		if t.state == titan.StateDead {
			continue
		}
		w.followRouteLocked(t, dt)
		if t.detector == nil {
			continue
		}
		w.refreshOverlapsLocked(t)
		t.detector.Update(ctx, now)
	}
}

func (w *World) followRouteLocked(t *Titan, dt float64) {
	if t.route == nil || t.target != "" {
		return
	}
	checkpoint := t.route.Current()
	if checkpoint.End {
		return
	}
	if t.route.Reached(t.pose.Position, w.cfg.ReachRadius) {
		t.route.Advance()
		return
	}
	toward := checkpoint.Position.Sub(t.pose.Position)
	distance := toward.Magnitude()
	step := t.cfg.Speed * dt
	if step > distance {
		step = distance
	}
	if distance > 0 {
		t.pose.Position = t.pose.Position.Add(toward.Scale(step / distance))
		t.pose.Rotation.Yaw = math.Atan2(toward.X, toward.Z) * 180 / math.Pi
	}
}

func (w *World) refreshOverlapsLocked(t *Titan) {
	radius := w.cfg.DetectionRadius * math.Max(t.cfg.Size, 1)
	inside := make(map[string]bool)
	ids := make([]string, 0, len(w.heroes))
	for id := range w.heroes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		collider := HeroCollider(id)
		if geom.Distance(t.pose.Position, w.heroes[id].position) <= radius {
			inside[collider] = true
			t.detector.OnTriggerEnter(collider)
		}
	}
	for _, collider := range t.detector.Overlaps() {
		if !inside[collider] {
			t.detector.OnTriggerExit(collider)
		}
	}
}

// TitanView is the read-only snapshot of one titan.
type TitanView struct {
	ID        string    `json:"id"`
	Archetype string    `json:"archetype,omitempty"`
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	Health    int       `json:"health"`
	Size      float64   `json:"size"`
	Position  geom.Vec3 `json:"position"`
	Target    string    `json:"target,omitempty"`
}

// Snapshot is a copy of the level state safe to hand to other goroutines.
type Snapshot struct {
	Level  string      `json:"level"`
	Titans []TitanView `json:"titans"`
	Heroes []string    `json:"heroes"`
}

func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	snapshot := Snapshot{Level: w.layout.Name, Titans: make([]TitanView, 0, len(w.titans))}
	for _, t := range w.titans {
		view := TitanView{
			ID:       t.id,
			Kind:     t.kind.String(),
			State:    t.state.String(),
			Health:   t.cfg.Health,
			Size:     t.cfg.Size,
			Position: t.pose.Position,
			Target:   t.target,
		}
		if t.kind == titan.KindMindless {
			view.Archetype = t.cfg.Type.String()
		}
		snapshot.Titans = append(snapshot.Titans, view)
	}
	for id := range w.heroes {
		snapshot.Heroes = append(snapshot.Heroes, id)
	}
	sort.Strings(snapshot.Heroes)
	return snapshot
}

var (
	_ gamemode.World   = (*World)(nil)
	_ gamemode.Spawner = (*World)(nil)
	_ gamemode.Roster  = (*World)(nil)
)
