package gamemode

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/random"
	"titan-siege/server/internal/titan"
)

const (
	TagRoute            = "route"
	RushRouteName       = "routeCT"
	RushSpawnGroup      = "titanRespawnCT"
	RushWaypointCount   = 10
	PrefabColossal      = "COLOSSAL_TITAN"
	ObjectTrostRespawn  = "playerRespawnTrost"
	ObjectRock          = "rock"
	colossalSpawnHeight = -10000
)

// Rush sends route-following titans toward the north gate while a colossal
// titan is in play.
type Rush struct {
	*Engine
	rush       *settings.RushSettings
	routes     []Object
	spawns     []Object
	nextUpdate int
}

func NewRush(cfg Config, s *settings.RushSettings, deps Deps) (*Rush, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil rush settings", ErrConfiguration)
	}
	if s.TitanInterval <= 0 {
		return nil, fmt.Errorf("%w: TitanInterval %d must be positive", ErrConfiguration, s.TitanInterval)
	}
	engine, err := New(cfg, s, deps)
	if err != nil {
		return nil, err
	}
	return &Rush{Engine: engine, rush: s, nextUpdate: 1}, nil
}

// OnLevelLoaded clears the Trost respawn and the rock, then on the authority
// spawns the colossal titan and collects routes and the rush spawn group.
func (r *Rush) OnLevelLoaded(ctx context.Context, level string) error {
	if err := r.Engine.OnLevelLoaded(ctx, level); err != nil {
		return err
	}
	world := r.deps.World
	if world == nil {
		return fmt.Errorf("%w: no world", ErrConfiguration)
	}
	world.SetActive(ObjectTrostRespawn, false)
	world.Destroy(ObjectTrostRespawn)
	world.Destroy(ObjectRock)
	if !r.cfg.Authority {
		return nil
	}

	boss := Pose{Position: geom.Vec3{Y: colossalSpawnHeight}, Rotation: geom.Euler(0, 180, 0)}
	if err := world.Instantiate(ctx, PrefabColossal, boss); err != nil {
		return fmt.Errorf("instantiate %s: %w", PrefabColossal, err)
	}

	routes := world.FindByTag(TagRoute)
	eligible := false
	for _, route := range routes {
		if route.Name == RushRouteName {
			eligible = true
			break
		}
	}
	if !eligible {
		return fmt.Errorf("%w: no %q object tagged %q", ErrMissingTagged, RushRouteName, TagRoute)
	}

	var spawns []Object
	for _, spawn := range world.FindByTag(TagTitanSpawn) {
		if spawn.Parent == RushSpawnGroup {
			spawns = append(spawns, spawn)
		}
	}
	if len(spawns) == 0 {
		return fmt.Errorf("%w: no %q spawns under %q", ErrNoSpawnPoints, TagTitanSpawn, RushSpawnGroup)
	}
	r.routes = routes
	r.spawns = spawns
	return nil
}

// StatusTop shows the elapsed time and the rush objective.
func (r *Rush) StatusTop(time, totalRoomTime int) string {
	return "Time : " + strconv.Itoa(time-totalRoomTime) + "\nDefeat the Colossal Titan.\nPrevent abnormal titan from running to the north gate"
}

// Update runs the base update, then once per simulated second checks whether
// the next whole second is a multiple of the titan interval and spawns a
// rusher if so.
func (r *Rush) Update(ctx context.Context, now time.Duration) error {
	err := r.Engine.Update(ctx, now)
	seconds := now.Seconds()
	if seconds < float64(r.nextUpdate) {
		return err
	}
	r.nextUpdate = int(math.Floor(seconds)) + 1
	if !r.cfg.Authority || r.phase != PhaseActive {
		return err
	}
	if r.nextUpdate%r.rush.TitanInterval != 0 {
		return err
	}
	return errors.Join(err, r.spawnRusher(ctx))
}

func (r *Rush) spawnRusher(ctx context.Context) error {
	if r.population() >= r.rush.TitanLimit {
		return nil
	}
	if len(r.spawns) == 0 {
		return ErrNoSpawnPoints
	}
	cfg, err := r.TitanConfiguration()
	if err != nil {
		return err
	}
	route, err := r.Route()
	if err != nil {
		return err
	}
	cfg = cfg.WithBehavior(titan.NewRushBehavior(route))
	spawn := r.spawns[random.Index(r.deps.RNG, len(r.spawns))]
	_, err = r.spawn(ctx, spawn.Pose, cfg)
	return err
}

// Route samples routes until it draws the rush route and returns its ten
// waypoints followed by the End sentinel.
func (r *Rush) Route() ([]titan.Checkpoint, error) {
	if len(r.routes) == 0 {
		return nil, fmt.Errorf("%w: no routes loaded", ErrMissingTagged)
	}
	route := r.routes[random.Index(r.deps.RNG, len(r.routes))]
	for route.Name != RushRouteName {
		route = r.routes[random.Index(r.deps.RNG, len(r.routes))]
	}
	checkpoints := make([]titan.Checkpoint, 0, RushWaypointCount+1)
	for i := 1; i <= RushWaypointCount; i++ {
		name := "r" + strconv.Itoa(i)
		waypoint, ok := route.Child(name)
		if !ok {
			return nil, fmt.Errorf("%w: route %q has no waypoint %q", ErrMissingTagged, route.Name, name)
		}
		checkpoints = append(checkpoints, titan.Checkpoint{Position: waypoint.Pose.Position})
	}
	return append(checkpoints, titan.EndCheckpoint), nil
}

var (
	_ Gamemode = (*Engine)(nil)
	_ Gamemode = (*Rush)(nil)
)
