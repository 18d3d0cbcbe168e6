package gamemode

import (
	"context"

	"titan-siege/server/internal/random"
	"titan-siege/server/internal/titan"
	"titan-siege/server/logging/round"
)

// ConfigFactory produces the configuration for the next spawn.
type ConfigFactory func() (titan.Configuration, error)

const (
	abortPhase   = "phase"
	abortLimit   = "titan_limit"
	abortFailure = "spawn_failed"
)

// Wave spawns up to a fixed number of titans, one per Step. The engine calls
// Step once per tick so the population check sees earlier spawns.
type Wave struct {
	engine    *Engine
	spawns    []Object
	factory   ConfigFactory
	remaining int
	spawned   int
	done      bool
}

// Remaining is the number of spawns the wave still owes.
func (w *Wave) Remaining() int {
	return w.remaining
}

// Spawned counts the titans this wave has put into the level.
func (w *Wave) Spawned() int {
	return w.spawned
}

// Done reports whether the wave finished or was aborted.
func (w *Wave) Done() bool {
	return w.done
}

// Step performs at most one spawn and reports whether the wave wants more
// steps.
func (w *Wave) Step(ctx context.Context) (bool, error) {
	if w.done {
		return false, nil
	}
	if w.remaining <= 0 {
		w.done = true
		return false, nil
	}
	e := w.engine
	if e.phase != PhaseActive {
		w.abort(ctx, abortPhase)
		return false, nil
	}
	if e.population() >= e.settings.Base().TitanLimit {
		w.abort(ctx, abortLimit)
		return false, nil
	}
	cfg, err := w.factory()
	if err != nil {
		w.abort(ctx, abortFailure)
		return false, err
	}
	spawn := w.spawns[random.Index(e.deps.RNG, len(w.spawns))]
	if _, err := e.spawn(ctx, spawn.Pose, cfg); err != nil {
		w.abort(ctx, abortFailure)
		return false, err
	}
	w.spawned++
	w.remaining--
	if w.remaining == 0 {
		w.done = true
	}
	return !w.done, nil
}

func (w *Wave) abort(ctx context.Context, reason string) {
	w.done = true
	round.WaveAborted(ctx, w.engine.deps.Publisher, w.engine.tick, w.engine.name, round.WaveAbortedPayload{
		Reason:    reason,
		Spawned:   w.spawned,
		Remaining: w.remaining,
	})
}
