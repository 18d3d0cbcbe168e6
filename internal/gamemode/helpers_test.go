package gamemode

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/session"
	"titan-siege/server/internal/titan"
	"titan-siege/server/logging/sinks"
)

type instantiated struct {
	prefab string
	pose   Pose
}

type fakeWorld struct {
	objects      []Object
	destroyed    []string
	inactive     []string
	moved        map[string]Pose
	instantiated []instantiated
}

func (w *fakeWorld) FindByTag(tag string) []Object {
	var found []Object
	for _, o := range w.objects {
		if o.Tag == tag && !w.isDestroyed(o.Name) {
			found = append(found, o)
		}
	}
	return found
}

func (w *fakeWorld) Find(name string) (Object, bool) {
	for _, o := range w.objects {
		if o.Name == name && !w.isDestroyed(name) {
			return o, true
		}
	}
	return Object{}, false
}

func (w *fakeWorld) isDestroyed(name string) bool {
	for _, d := range w.destroyed {
		if d == name {
			return true
		}
	}
	return false
}

func (w *fakeWorld) SetActive(name string, active bool) {
	if !active {
		w.inactive = append(w.inactive, name)
	}
}

func (w *fakeWorld) Destroy(name string) {
	w.destroyed = append(w.destroyed, name)
}

func (w *fakeWorld) Move(name string, pose Pose) {
	if w.moved == nil {
		w.moved = make(map[string]Pose)
	}
	w.moved[name] = pose
}

func (w *fakeWorld) Instantiate(_ context.Context, prefab string, pose Pose) error {
	w.instantiated = append(w.instantiated, instantiated{prefab: prefab, pose: pose})
	return nil
}

type spawnCall struct {
	pose Pose
	cfg  titan.Configuration
}

// fakeLevel is both spawner and roster.
type fakeLevel struct {
	titans []TitanStatus
	calls  []spawnCall
	fail   error
}

func (l *fakeLevel) SpawnTitan(_ context.Context, pose Pose, cfg titan.Configuration) (AgentHandle, error) {
	if l.fail != nil {
		return AgentHandle{}, l.fail
	}
	l.calls = append(l.calls, spawnCall{pose: pose, cfg: cfg})
	id := fmt.Sprintf("titan-%d", len(l.titans)+1)
	l.titans = append(l.titans, TitanStatus{ID: id, Kind: titan.KindMindless, State: titan.StateIdle})
	return AgentHandle{ID: id}, nil
}

func (l *fakeLevel) Titans() []TitanStatus {
	return append([]TitanStatus(nil), l.titans...)
}

type broadcastCall struct {
	event   string
	payload any
}

type fakeSession struct {
	offline      bool
	participants []session.Participant
	broadcasts   []broadcastCall
}

func (s *fakeSession) IsOfflineMode() bool { return s.offline }

func (s *fakeSession) Participants() []session.Participant {
	return append([]session.Participant(nil), s.participants...)
}

func (s *fakeSession) SetProperties(id int, props map[string]any) {
	for i := range s.participants {
		if s.participants[i].ID != id {
			continue
		}
		if s.participants[i].Properties == nil {
			s.participants[i].Properties = map[string]any{}
		}
		for k, v := range props {
			s.participants[i].Properties[k] = v
		}
	}
}

func (s *fakeSession) Broadcast(_ context.Context, event string, payload any) error {
	s.broadcasts = append(s.broadcasts, broadcastCall{event: event, payload: payload})
	return nil
}

type fakeRounds struct {
	restarts int
}

func (r *fakeRounds) Restart(context.Context) error {
	r.restarts++
	return nil
}

type harness struct {
	engine  *Engine
	world   *fakeWorld
	level   *fakeLevel
	session *fakeSession
	rounds  *fakeRounds
	events  *sinks.Memory
}

func spawnPoints(n int, parent string) []Object {
	points := make([]Object, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, Object{
			Name:   fmt.Sprintf("spawn-%s-%d", parent, i),
			Tag:    TagTitanSpawn,
			Parent: parent,
			Pose:   Pose{Position: geom.Vec3{X: float64(i * 10)}},
		})
	}
	return points
}

func newDeps(world *fakeWorld, level *fakeLevel, sess *fakeSession, rounds *fakeRounds, events *sinks.Memory) Deps {
	return Deps{
		World:     world,
		Spawner:   level,
		Roster:    level,
		Session:   sess,
		Rounds:    rounds,
		Publisher: events,
		RNG:       rand.New(rand.NewSource(7)),
	}
}

func newHarness(t *testing.T, s settings.Settings, authority bool) *harness {
	t.Helper()
	h := &harness{
		world:   &fakeWorld{objects: spawnPoints(4, "titanRespawns")},
		level:   &fakeLevel{},
		session: &fakeSession{},
		rounds:  &fakeRounds{},
		events:  sinks.NewMemory(),
	}
	cfg := DefaultConfig()
	cfg.Authority = authority
	engine, err := New(cfg, s, newDeps(h.world, h.level, h.session, h.rounds, h.events))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	h.engine = engine
	return h
}

func mustSettings(t *testing.T, gamemode settings.Type, doc string) settings.Settings {
	t.Helper()
	s, err := settings.Convert([]byte(doc), gamemode)
	if err != nil {
		t.Fatalf("convert settings: %v", err)
	}
	return s
}
