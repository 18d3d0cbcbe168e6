package sim

import (
	"context"
	"sync"
	"time"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to
	// per-participant queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
)

// Stepper is the state advanced by the loop.
type Stepper interface {
	Apply(ctx context.Context, cmds []Command)
	Step(ctx context.Context, tick uint64, now time.Duration)
}

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
}

func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TickRate:        15,
		CatchupMaxTicks: 3,
		CommandCapacity: 1024,
		PerActorLimit:   32,
	}
}

// LoopTickContext describes the step about to run.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Duration
	Delta time.Duration
}

// LoopStepResult describes a finished step.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Duration
	Delta        time.Duration
	Commands     []Command
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     time.Duration
}

// LoopHooks are optional callbacks run on the loop goroutine.
type LoopHooks struct {
	Prepare       func(LoopTickContext)
	AfterStep     func(LoopStepResult)
	OnCommandDrop func(reason string, cmd Command)
}

// Loop coordinates command ingestion and the fixed-timestep runner. Simulated
// time only advances by clamped deltas, so a stalled process does not skip a
// restart countdown or a spawn interval in one step.
type Loop struct {
	stepper Stepper
	buffer  *CommandBuffer
	hooks   LoopHooks
	config  LoopConfig
	deps    Deps

	queueMu       sync.Mutex
	perActorCount map[int]int
	dropCounts    map[int]uint64

	tick uint64
	now  time.Duration
}

// NewLoop wraps the stepper with a ring-buffer queue and loop.
func NewLoop(stepper Stepper, cfg LoopConfig, hooks LoopHooks, deps Deps) *Loop {
	if stepper == nil {
		return nil
	}
	defaults := DefaultLoopConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaults.TickRate
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = defaults.CommandCapacity
	}
	return &Loop{
		stepper:       stepper,
		buffer:        NewCommandBuffer(cfg.CommandCapacity),
		hooks:         hooks,
		config:        cfg,
		deps:          deps.withDefaults(),
		perActorCount: make(map[int]int),
		dropCounts:    make(map[int]uint64),
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-participant throttling and
// capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.Participant != 0 {
		count := l.perActorCount[cmd.Participant]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.Participant)
		} else {
			l.perActorCount[cmd.Participant] = count + 1
		}
	}
	if reason == "" && !l.buffer.Push(cmd) {
		reason = CommandRejectQueueFull
		dropCount = l.incrementDropLocked(cmd.Participant)
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Advance executes a single simulation step of delta using the staged
// commands.
func (l *Loop) Advance(ctx context.Context, delta time.Duration) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	if delta < 0 {
		delta = 0
	}
	l.tick++
	l.now += delta
	commands := l.drainCommands()
	tickCtx := LoopTickContext{Tick: l.tick, Now: l.now, Delta: delta}
	if l.hooks.Prepare != nil {
		l.hooks.Prepare(tickCtx)
	}
	l.stepper.Apply(ctx, commands)
	l.stepper.Step(ctx, l.tick, l.now)
	return LoopStepResult{Tick: l.tick, Now: l.now, Delta: delta, Commands: commands}
}

// Run drives the fixed-timestep loop until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}
	budget := time.Second / time.Duration(l.config.TickRate)
	maxDelta := budget
	if l.config.CatchupMaxTicks > 1 {
		maxDelta = budget * time.Duration(l.config.CatchupMaxTicks)
	}
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	clock := l.deps.Clock
	last := clock.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := clock.Now()
			delta := now.Sub(last)
			clamped := false
			if delta <= 0 {
				delta = budget
			} else if delta > maxDelta {
				delta = maxDelta
				clamped = true
			}
			last = now

			start := clock.Now()
			result := l.Advance(ctx, delta)
			result.Duration = clock.Now().Sub(start)
			result.Budget = budget
			result.ClampedDelta = clamped
			result.MaxDelta = maxDelta
			if result.Duration > budget {
				l.deps.Logger.Printf("[sim] tick %d took %s (budget %s)", result.Tick, result.Duration, budget)
			}
			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[int]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(participant int) uint64 {
	if participant == 0 {
		return 0
	}
	count := l.dropCounts[participant] + 1
	l.dropCounts[participant] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 {
		l.deps.Logger.Printf(
			"[backpressure] dropping command participant=%d type=%s count=%d limit=%d",
			cmd.Participant,
			cmd.Type,
			count,
			l.config.PerActorLimit,
		)
	}
}
