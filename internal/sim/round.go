package sim

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/scene"
	"titan-siege/server/internal/session"
)

var (
	ErrNoGamemode     = errors.New("no gamemode attached")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownTitan   = errors.New("unknown titan")
	ErrMissingPayload = errors.New("command payload missing")
)

// RoundConfig tunes the round driver.
type RoundConfig struct {
	// RoundTime is the room time limit passed to the status text.
	RoundTime time.Duration
}

func DefaultRoundConfig() RoundConfig {
	return RoundConfig{RoundTime: 10 * time.Minute}
}

// Round owns the gamemode and the level on the simulation goroutine. It also
// serves as the gamemode's round controller: a restart resets the level and
// loads it again on the next step.
type Round struct {
	cfg     RoundConfig
	world   *scene.World
	session gamemode.Session

	gm           gamemode.Gamemode
	engine       *gamemode.Engine
	levelPending bool
	roundID      string
	roundStart   time.Duration
	now          time.Duration

	status atomic.Pointer[Status]
}

func NewRound(cfg RoundConfig, world *scene.World, sess gamemode.Session) *Round {
	if cfg.RoundTime <= 0 {
		cfg.RoundTime = DefaultRoundConfig().RoundTime
	}
	r := &Round{cfg: cfg, world: world, session: sess, levelPending: true}
	r.status.Store(&Status{})
	return r
}

// Attach installs the gamemode. Games where clearing the level wins the
// round get the all-titans-dead hook wired to OnGameWon.
func (r *Round) Attach(gm gamemode.Gamemode) {
	r.gm = gm
	r.engine = gm.Core()
	engine := r.engine
	r.engine.SetAllTitansDeadHook(func(ctx context.Context) {
		if !engine.Authority() || engine.Phase() != gamemode.PhaseActive {
			return
		}
		if err := engine.OnGameWon(ctx); err != nil {
			engine.ReportError(ctx, "OnAllTitansDead", err)
		}
	})
}

// Restart implements gamemode.RoundController.
func (r *Round) Restart(context.Context) error {
	r.world.Reset()
	r.levelPending = true
	return nil
}

// HeroID is the scene actor id of a participant.
func HeroID(participant int) string {
	return "hero-" + strconv.Itoa(participant)
}

// Apply runs the staged commands in order. A failing command is reported
// and does not stop the rest.
func (r *Round) Apply(ctx context.Context, cmds []Command) {
	if r.engine == nil {
		return
	}
	for _, cmd := range cmds {
		if err := r.apply(ctx, cmd); err != nil {
			r.engine.ReportError(ctx, string(cmd.Type), err)
		}
	}
}

func (r *Round) apply(ctx context.Context, cmd Command) error {
	hero := HeroID(cmd.Participant)
	switch cmd.Type {
	case CommandSpawnHero:
		position := geom.Vec3{}
		if cmd.Hero != nil {
			position = cmd.Hero.Position
		} else if spawn, err := r.engine.PlayerSpawnLocation(""); err == nil {
			position = spawn.Pose.Position
		}
		r.world.AddHero(hero, position)
		r.session.SetProperties(cmd.Participant, map[string]any{session.PropIsTitan: 1, session.PropDead: false})
		r.engine.OnPlayerSpawned(ctx, cmd.Participant)
		return nil
	case CommandMoveHero:
		if cmd.Hero == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, cmd.Type)
		}
		r.world.MoveHero(hero, cmd.Hero.Position)
		return nil
	case CommandHeroKilled:
		r.world.RemoveHero(hero)
		deaths := r.property(cmd.Participant, session.PropDeaths) + 1
		r.session.SetProperties(cmd.Participant, map[string]any{session.PropDead: true, session.PropDeaths: deaths})
		return r.engine.OnPlayerKilled(ctx, cmd.Participant)
	case CommandLeave:
		r.world.RemoveHero(hero)
		return nil
	case CommandKillTitan:
		if cmd.Titan == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, cmd.Type)
		}
		if !r.world.KillTitan(cmd.Titan.TitanID) {
			return fmt.Errorf("%w: %s", ErrUnknownTitan, cmd.Titan.TitanID)
		}
		kills := r.property(cmd.Participant, session.PropKills) + 1
		r.session.SetProperties(cmd.Participant, map[string]any{session.PropKills: kills})
		return r.engine.OnTitanKilled(ctx, cmd.Titan.TitanID)
	case CommandSpawnTitans:
		if cmd.Titan == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, cmd.Type)
		}
		return r.engine.SpawnTitans(ctx, cmd.Titan.Amount)
	case CommandRestart:
		return r.engine.OnRestart(ctx)
	case CommandNetGameWin, CommandNetGameLose:
		if cmd.Score == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, cmd.Type)
		}
		if cmd.Type == CommandNetGameWin {
			return r.engine.OnNetGameWon(ctx, cmd.Score.Score)
		}
		return r.engine.OnNetGameLost(ctx, cmd.Score.Score)
	case CommandNetRestart:
		return r.engine.OnNetRestart(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}

func (r *Round) property(participant int, key string) int {
	for _, p := range r.session.Participants() {
		if p.ID == participant {
			return session.IntProperty(p.Properties, key)
		}
	}
	return 0
}

// Step loads a pending level, advances the scene and the gamemode, then
// publishes a fresh status.
func (r *Round) Step(ctx context.Context, tick uint64, now time.Duration) {
	if r.gm == nil {
		return
	}
	r.now = now
	if r.levelPending {
		r.levelPending = false
		r.loadLevel(ctx, now)
	}
	r.world.Update(ctx, now)
	if err := r.gm.Update(ctx, now); err != nil {
		r.engine.ReportError(ctx, "Update", err)
	}
	r.publishStatus(tick)
}

func (r *Round) loadLevel(ctx context.Context, now time.Duration) {
	r.roundID = uuid.NewString()
	r.roundStart = now
	if err := r.gm.OnLevelLoaded(ctx, r.world.Name()); err != nil {
		r.engine.ReportError(ctx, "OnLevelLoaded", err)
		return
	}
	if !r.engine.Authority() {
		return
	}
	if amount := settings.InitialTitans(r.engine.Settings()); amount > 0 {
		if err := r.engine.SpawnTitans(ctx, amount); err != nil {
			r.engine.ReportError(ctx, "SpawnTitans", err)
		}
	}
}

// Status returns the most recently published status. Safe from any
// goroutine.
func (r *Round) Status() Status {
	return *r.status.Load()
}

func (r *Round) publishStatus(tick uint64) {
	common := r.engine.Settings().Base()
	elapsed := int((r.now - r.roundStart).Seconds())
	roundTime := int(r.cfg.RoundTime.Seconds())
	countdown := r.engine.RestartCountdown().Seconds()
	status := &Status{
		Tick:           tick,
		RoundID:        r.roundID,
		Gamemode:       r.engine.Settings().Type().String(),
		Phase:          r.engine.Phase().String(),
		Authority:      r.engine.Authority(),
		HumanScore:     common.HumanScore,
		TitanScore:     common.TitanScore,
		Countdown:      countdown,
		StatusTop:      r.gm.StatusTop(elapsed, roundTime),
		StatusTopRight: r.gm.StatusTopRight(elapsed, roundTime),
		Scene:          r.world.Snapshot(),
	}
	switch r.engine.Phase() {
	case gamemode.PhaseWon:
		status.Message = r.gm.VictoryMessage(countdown, r.now.Seconds())
	case gamemode.PhaseLost:
		status.Message = r.gm.DefeatMessage(countdown)
	case gamemode.PhaseRestarting, gamemode.PhaseLoading:
		status.Message = r.gm.RoundEndedMessage()
	}
	r.status.Store(status)
}

var _ gamemode.RoundController = (*Round)(nil)
