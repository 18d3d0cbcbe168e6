// Package gamemode runs the round lifecycle: titan configuration, wave
// spawning, win and loss evaluation, scores and status text.
//
// Only the session authority mutates round state. A non-authoritative engine
// mirrors the scores and restarts it receives through OnNetGameWon,
// OnNetGameLost and OnNetRestart and rejects every other mutating call with
// ErrNotAuthority. The authority refuses mirrored state with ErrAuthoritative.
package gamemode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/random"
	"titan-siege/server/internal/session"
	"titan-siege/server/internal/titan"
	"titan-siege/server/logging/round"
)

// Broadcast event names sent from the authority to every other participant.
const (
	EventNetGameWin  = "netGameWin"
	EventNetGameLose = "netGameLose"
	EventNetRestart  = "netRestart"
)

// Level object names and tags shared by every gamemode.
const (
	TagTitanSpawn        = "titanRespawn"
	TagPlayerSpawn       = "playerRespawn"
	ObjectSupply         = "aot_supply"
	ObjectLavaSupply     = "aot_supply_lava_position"
	PrefabLevelBottom    = "levelBottom"
	lavaLevelBottomDepth = -29.5
)

// Phase is the round lifecycle state.
type Phase uint8

const (
	PhaseLoading Phase = iota
	PhaseActive
	PhaseWon
	PhaseLost
	PhaseRestarting
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	case PhaseRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// Gamemode is implemented by the base engine and by every variant.
type Gamemode interface {
	Core() *Engine
	OnLevelLoaded(ctx context.Context, level string) error
	Update(ctx context.Context, now time.Duration) error
	StatusTop(time, totalRoomTime int) string
	StatusTopRight(time, totalRoomTime int) string
	VictoryMessage(timeUntilRestart, totalServerTime float64) string
	DefeatMessage(gameEndCountdown float64) string
	RoundEndedMessage() string
}

// Engine is the base gamemode. Variants embed it and override hooks.
type Engine struct {
	cfg      Config
	settings settings.Settings
	deps     Deps
	name     string

	phase     Phase
	tick      uint64
	now       time.Duration
	countdown time.Duration
	waves     []*Wave

	onAllTitansDead func(ctx context.Context)
}

// New builds a base engine for the settings.
func New(cfg Config, s settings.Settings, deps Deps) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil settings", ErrConfiguration)
	}
	cfg = cfg.normalized()
	name := cfg.Name
	if name == "" {
		name = s.Type().String()
	}
	return &Engine{
		cfg:      cfg,
		settings: s,
		deps:     deps.withDefaults(),
		name:     name,
		phase:    PhaseLoading,
	}, nil
}

// NewGamemode builds the gamemode matching the settings variant.
func NewGamemode(cfg Config, s settings.Settings, deps Deps) (Gamemode, error) {
	if rush, ok := s.(*settings.RushSettings); ok {
		return NewRush(cfg, rush, deps)
	}
	return New(cfg, s, deps)
}

// ConvertSettings decodes a settings document for the gamemode type.
func ConvertSettings(data []byte, t settings.Type) (settings.Settings, error) {
	s, err := settings.Convert(data, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return s, nil
}

func (e *Engine) Core() *Engine {
	return e
}

func (e *Engine) Settings() settings.Settings {
	return e.settings
}

func (e *Engine) Phase() Phase {
	return e.phase
}

func (e *Engine) Authority() bool {
	return e.cfg.Authority
}

func (e *Engine) Tick() uint64 {
	return e.tick
}

// RestartCountdown is the time left before an ended round restarts.
func (e *Engine) RestartCountdown() time.Duration {
	return e.countdown
}

// ActiveWaves counts waves that still have spawns pending.
func (e *Engine) ActiveWaves() int {
	return len(e.waves)
}

// SetAllTitansDeadHook installs the handler run when every titan is dead and
// the settings ask for it.
func (e *Engine) SetAllTitansDeadHook(hook func(ctx context.Context)) {
	e.onAllTitansDead = hook
}

func (e *Engine) requireAuthority() error {
	if !e.cfg.Authority {
		return ErrNotAuthority
	}
	return nil
}

func (e *Engine) setPhase(ctx context.Context, next Phase) {
	if e.phase == next {
		return
	}
	round.PhaseChanged(ctx, e.deps.Publisher, e.tick, e.name, round.PhasePayload{From: e.phase.String(), To: next.String()})
	e.phase = next
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return e.deps.Tracer.Start(ctx, "gamemode."+name, trace.WithAttributes(
		attribute.String("gamemode", e.name),
		attribute.Bool("authority", e.cfg.Authority),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *Engine) selectArchetype() titan.Archetype {
	if archetype, ok := SelectArchetype(e.deps.RNG, e.settings.Base()); ok {
		return archetype
	}
	return UniformArchetype(e.deps.RNG)
}

// TitanConfiguration builds a configuration with a selected archetype.
func (e *Engine) TitanConfiguration() (titan.Configuration, error) {
	return e.TitanConfigurationOf(e.selectArchetype())
}

// TitanConfigurationOf randomizes size and health for the archetype. No
// behaviors or attacks are attached.
func (e *Engine) TitanConfigurationOf(archetype titan.Archetype) (titan.Configuration, error) {
	common := e.settings.Base()
	var size float64
	if common.TitanCustomSize {
		size = random.Float(e.deps.RNG, common.TitanMinimumSize, common.TitanMaximumSize)
	} else {
		size = random.Float(e.deps.RNG, e.cfg.MinimumSize, e.cfg.MaximumSize)
	}
	health, err := ComputeHealth(e.deps.RNG, common.TitanHealthMode, common.TitanHealthMinimum, common.TitanHealthMaximum, size)
	if err != nil {
		return titan.Configuration{}, err
	}
	return titan.NewConfiguration(health, e.cfg.Damage, e.cfg.ViewDistance, e.cfg.Speed, size, archetype), nil
}

// PlayerTitanConfiguration is TitanConfiguration plus the fixed player attack
// set. Crawlers get no attacks.
func (e *Engine) PlayerTitanConfiguration() (titan.Configuration, error) {
	cfg, err := e.TitanConfiguration()
	if err != nil {
		return titan.Configuration{}, err
	}
	if cfg.Type == titan.ArchetypeCrawler {
		cfg.Attacks = []titan.Attack{}
		return cfg, nil
	}
	cfg.Attacks = titan.PlayerAttacks()
	return cfg, nil
}

// population counts living mindless titans. Corpses stay on the roster until
// the level resets and the colossal boss is not part of the wave population.
func (e *Engine) population() int {
	if e.deps.Roster == nil {
		return 0
	}
	alive := 0
	for _, t := range e.deps.Roster.Titans() {
		if t.Kind == titan.KindMindless && t.State != titan.StateDead {
			alive++
		}
	}
	return alive
}

func (e *Engine) spawn(ctx context.Context, pose Pose, cfg titan.Configuration) (AgentHandle, error) {
	if e.deps.Spawner == nil {
		return AgentHandle{}, fmt.Errorf("%w: no spawner", ErrConfiguration)
	}
	handle, err := e.deps.Spawner.SpawnTitan(ctx, pose, cfg)
	if err != nil {
		return AgentHandle{}, fmt.Errorf("spawn titan: %w", err)
	}
	e.OnTitanSpawned(ctx, handle, cfg)
	return handle, nil
}

// SpawnTitans starts a wave of amount titans built by TitanConfiguration.
func (e *Engine) SpawnTitans(ctx context.Context, amount int) error {
	return e.SpawnTitansWith(ctx, amount, e.TitanConfiguration)
}

// SpawnTitansWith starts a wave. The first spawn happens immediately and each
// following one on a later Update.
func (e *Engine) SpawnTitansWith(ctx context.Context, amount int, factory ConfigFactory) (err error) {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	ctx, span := e.startSpan(ctx, "SpawnTitans")
	span.SetAttributes(attribute.Int("amount", amount))
	defer func() { endSpan(span, err) }()

	if e.deps.World == nil {
		return fmt.Errorf("%w: no world", ErrConfiguration)
	}
	spawns := e.deps.World.FindByTag(TagTitanSpawn)
	if len(spawns) == 0 {
		return ErrNoSpawnPoints
	}
	if amount <= 0 {
		return nil
	}
	wave := &Wave{engine: e, spawns: spawns, factory: factory, remaining: amount}
	more, err := wave.Step(ctx)
	if err != nil {
		return err
	}
	if more {
		e.waves = append(e.waves, wave)
	}
	return nil
}

func (e *Engine) advanceWaves(ctx context.Context) error {
	if len(e.waves) == 0 {
		return nil
	}
	var errs []error
	pending := e.waves[:0]
	for _, wave := range e.waves {
		more, err := wave.Step(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if more {
			pending = append(pending, wave)
		}
	}
	for i := len(pending); i < len(e.waves); i++ {
		e.waves[i] = nil
	}
	e.waves = pending
	return errors.Join(errs...)
}

func (e *Engine) abortWaves(ctx context.Context) {
	for _, wave := range e.waves {
		wave.abort(ctx, abortPhase)
	}
	e.waves = nil
}

// Update advances simulation time to now: pending waves take one step and an
// armed restart countdown runs down, restarting the round on the authority.
func (e *Engine) Update(ctx context.Context, now time.Duration) error {
	dt := now - e.now
	if dt < 0 {
		dt = 0
	}
	e.now = now
	e.tick++

	err := e.advanceWaves(ctx)
	if (e.phase == PhaseWon || e.phase == PhaseLost) && e.countdown > 0 {
		e.countdown -= dt
		if e.countdown <= 0 {
			e.countdown = 0
			if e.cfg.Authority {
				err = errors.Join(err, e.OnRestart(ctx))
			}
		}
	}
	return err
}

// OnLevelLoaded applies the settings driven level toggles and activates the
// round. The toggles run on every participant.
func (e *Engine) OnLevelLoaded(ctx context.Context, level string) error {
	ctx, span := e.startSpan(ctx, "OnLevelLoaded")
	defer span.End()
	common := e.settings.Base()
	if world := e.deps.World; world != nil {
		if !common.Supply {
			world.Destroy(ObjectSupply)
		}
		if common.LavaMode {
			if err := world.Instantiate(ctx, PrefabLevelBottom, Pose{Position: geom.Vec3{Y: lavaLevelBottomDepth}}); err != nil {
				return fmt.Errorf("instantiate %s: %w", PrefabLevelBottom, err)
			}
			lava, lavaOK := world.Find(ObjectLavaSupply)
			_, supplyOK := world.Find(ObjectSupply)
			if lavaOK && supplyOK {
				world.Move(ObjectSupply, lava.Pose)
			}
		}
	}
	e.countdown = 0
	e.setPhase(ctx, PhaseActive)
	round.LevelLoaded(ctx, e.deps.Publisher, e.tick, e.name, round.LevelLoadedPayload{Level: level, Gamemode: e.settings.Type().String()})
	return nil
}

// OnPlayerKilled loses the round once every human is dead.
func (e *Engine) OnPlayerKilled(ctx context.Context, id int) error {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	if e.phase != PhaseActive {
		return nil
	}
	if e.IsAllPlayersDead() {
		return e.OnGameLost(ctx)
	}
	return nil
}

// OnTitanKilled runs the all-titans-dead hook when the settings restart on a
// cleared level.
func (e *Engine) OnTitanKilled(ctx context.Context, name string) error {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	if e.settings.Base().RestartOnTitansKilled && e.IsAllTitansDead() {
		e.OnAllTitansDead(ctx)
	}
	return nil
}

func (e *Engine) OnAllTitansDead(ctx context.Context) {
	round.AllTitansDead(ctx, e.deps.Publisher, e.tick, e.name)
	if e.onAllTitansDead != nil {
		e.onAllTitansDead(ctx)
	}
}

// OnPlayerSpawned is a hook for variants; the base engine ignores it.
func (e *Engine) OnPlayerSpawned(ctx context.Context, id int) {}

// OnTitanSpawned records the spawn.
func (e *Engine) OnTitanSpawned(ctx context.Context, handle AgentHandle, cfg titan.Configuration) {
	round.TitanSpawned(ctx, e.deps.Publisher, e.tick, e.name, handle.ID, round.TitanSpawnedPayload{
		Archetype: cfg.Type.String(),
		Health:    cfg.Health,
		Size:      cfg.Size,
		Behaviors: len(cfg.Behaviors),
	})
}

// IsAllPlayersDead reports whether every participant flagged isTitan=1 is
// also flagged dead. It is true when nobody is flagged.
func (e *Engine) IsAllPlayersDead() bool {
	if e.deps.Session == nil {
		return true
	}
	flagged, dead := 0, 0
	for _, p := range e.deps.Session.Participants() {
		if session.IntProperty(p.Properties, session.PropIsTitan) != 1 {
			continue
		}
		flagged++
		if session.BoolProperty(p.Properties, session.PropDead) {
			dead++
		}
	}
	return flagged == dead
}

// IsAllTitansDead is false while any mindless titan is not dead or any female
// titan is present at all.
func (e *Engine) IsAllTitansDead() bool {
	if e.deps.Roster == nil {
		return true
	}
	for _, t := range e.deps.Roster.Titans() {
		switch t.Kind {
		case titan.KindMindless:
			if t.State != titan.StateDead {
				return false
			}
		case titan.KindFemale:
			return false
		}
	}
	return true
}

// OnGameWon scores a humanity victory and broadcasts the new score.
func (e *Engine) OnGameWon(ctx context.Context) (err error) {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	if e.phase != PhaseActive {
		return fmt.Errorf("%w: game won while %s", ErrPhase, e.phase)
	}
	ctx, span := e.startSpan(ctx, "OnGameWon")
	defer func() { endSpan(span, err) }()

	common := e.settings.Base()
	common.HumanScore++
	e.countdown = e.cfg.RestartCountdown
	e.abortWaves(ctx)
	e.setPhase(ctx, PhaseWon)
	span.SetAttributes(attribute.Int("human_score", common.HumanScore))
	round.GameWon(ctx, e.deps.Publisher, e.tick, e.name, round.ScorePayload{HumanScore: common.HumanScore, TitanScore: common.TitanScore})
	return e.broadcast(ctx, EventNetGameWin, common.HumanScore)
}

// OnGameLost scores a titan victory and broadcasts the new score.
func (e *Engine) OnGameLost(ctx context.Context) (err error) {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	if e.phase != PhaseActive {
		return fmt.Errorf("%w: game lost while %s", ErrPhase, e.phase)
	}
	ctx, span := e.startSpan(ctx, "OnGameLost")
	defer func() { endSpan(span, err) }()

	common := e.settings.Base()
	common.TitanScore++
	e.countdown = e.cfg.RestartCountdown
	e.abortWaves(ctx)
	e.setPhase(ctx, PhaseLost)
	span.SetAttributes(attribute.Int("titan_score", common.TitanScore))
	round.GameLost(ctx, e.deps.Publisher, e.tick, e.name, round.ScorePayload{HumanScore: common.HumanScore, TitanScore: common.TitanScore})
	return e.broadcast(ctx, EventNetGameLose, common.TitanScore)
}

func (e *Engine) broadcast(ctx context.Context, event string, payload any) error {
	if e.deps.Session == nil || e.deps.Session.IsOfflineMode() {
		return nil
	}
	if err := e.deps.Session.Broadcast(ctx, event, payload); err != nil {
		return fmt.Errorf("broadcast %s: %w", event, err)
	}
	return nil
}

// OnNetGameWon applies a humanity score received from the authority. The
// authority owns the scores and refuses it.
func (e *Engine) OnNetGameWon(ctx context.Context, score int) error {
	if e.cfg.Authority {
		return ErrAuthoritative
	}
	common := e.settings.Base()
	common.HumanScore = score
	e.countdown = e.cfg.RestartCountdown
	if e.phase == PhaseActive {
		e.setPhase(ctx, PhaseWon)
	}
	round.ScoreReceived(ctx, e.deps.Publisher, e.tick, e.name, round.ScorePayload{HumanScore: common.HumanScore, TitanScore: common.TitanScore})
	return nil
}

// OnNetGameLost applies a titan score received from the authority.
func (e *Engine) OnNetGameLost(ctx context.Context, score int) error {
	if e.cfg.Authority {
		return ErrAuthoritative
	}
	common := e.settings.Base()
	common.TitanScore = score
	e.countdown = e.cfg.RestartCountdown
	if e.phase == PhaseActive {
		e.setPhase(ctx, PhaseLost)
	}
	round.ScoreReceived(ctx, e.deps.Publisher, e.tick, e.name, round.ScorePayload{HumanScore: common.HumanScore, TitanScore: common.TitanScore})
	return nil
}

// OnRestart aborts pending waves, resets per-round stats when points are
// tracked and hands the reload to the round controller.
func (e *Engine) OnRestart(ctx context.Context) (err error) {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	ctx, span := e.startSpan(ctx, "OnRestart")
	defer func() { endSpan(span, err) }()

	reset := e.settings.Base().PointMode > 0
	if reset && e.deps.Session != nil {
		for _, p := range e.deps.Session.Participants() {
			e.deps.Session.SetProperties(p.ID, session.ResetStats())
		}
	}
	e.countdown = 0
	e.abortWaves(ctx)
	e.setPhase(ctx, PhaseRestarting)
	round.Restart(ctx, e.deps.Publisher, e.tick, e.name, reset)
	if err := e.reload(ctx); err != nil {
		return err
	}
	return e.broadcast(ctx, EventNetRestart, nil)
}

// OnNetRestart follows a restart announced by the authority: the mirrored
// round ends and the level reloads.
func (e *Engine) OnNetRestart(ctx context.Context) error {
	if e.cfg.Authority {
		return ErrAuthoritative
	}
	e.countdown = 0
	e.abortWaves(ctx)
	e.setPhase(ctx, PhaseRestarting)
	round.Restart(ctx, e.deps.Publisher, e.tick, e.name, false)
	return e.reload(ctx)
}

func (e *Engine) reload(ctx context.Context) error {
	if e.deps.Rounds != nil {
		if err := e.deps.Rounds.Restart(ctx); err != nil {
			return fmt.Errorf("restart round: %w", err)
		}
	}
	e.setPhase(ctx, PhaseLoading)
	return nil
}

// PlayerSpawnLocation picks a random object carrying the tag.
func (e *Engine) PlayerSpawnLocation(tag string) (Object, error) {
	if tag == "" {
		tag = TagPlayerSpawn
	}
	if e.deps.World == nil {
		return Object{}, fmt.Errorf("%w: no world", ErrConfiguration)
	}
	candidates := e.deps.World.FindByTag(tag)
	if len(candidates) == 0 {
		return Object{}, fmt.Errorf("%w: tag %q", ErrMissingTagged, tag)
	}
	return candidates[random.Index(e.deps.RNG, len(candidates))], nil
}

// ReportError publishes a failed operation without stopping the round.
func (e *Engine) ReportError(ctx context.Context, operation string, err error) {
	if err == nil {
		return
	}
	e.deps.Logger.Printf("[gamemode] %s %s failed: %v", e.name, operation, err)
	round.OperationError(ctx, e.deps.Publisher, e.tick, e.name, round.ErrorPayload{Operation: operation, Error: err.Error()})
}
