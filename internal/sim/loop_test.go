package sim

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingStepper struct {
	mu      sync.Mutex
	applied [][]Command
	ticks   []uint64
	times   []time.Duration
}

func (s *recordingStepper) Apply(_ context.Context, cmds []Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, cmds)
}

func (s *recordingStepper) Step(_ context.Context, tick uint64, now time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = append(s.ticks, tick)
	s.times = append(s.times, now)
}

func TestLoopAdvanceAppliesStagedCommands(t *testing.T) {
	stepper := &recordingStepper{}
	loop := NewLoop(stepper, LoopConfig{}, LoopHooks{}, Deps{})
	if ok, reason := loop.Enqueue(Command{Participant: 1, Type: CommandMoveHero}); !ok {
		t.Fatalf("expected enqueue to succeed, got %s", reason)
	}
	result := loop.Advance(context.Background(), 100*time.Millisecond)
	if result.Tick != 1 || result.Now != 100*time.Millisecond || len(result.Commands) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	loop.Advance(context.Background(), 50*time.Millisecond)
	if len(stepper.applied) != 2 || len(stepper.applied[1]) != 0 {
		t.Fatalf("expected commands drained once, got %v", stepper.applied)
	}
	if stepper.times[1] != 150*time.Millisecond {
		t.Fatalf("expected simulated time to accumulate, got %s", stepper.times[1])
	}
}

func TestLoopThrottlesPerParticipant(t *testing.T) {
	var dropped []string
	loop := NewLoop(&recordingStepper{}, LoopConfig{PerActorLimit: 2, CommandCapacity: 8}, LoopHooks{
		OnCommandDrop: func(reason string, cmd Command) { dropped = append(dropped, reason) },
	}, Deps{})
	for i := 0; i < 3; i++ {
		loop.Enqueue(Command{Participant: 7, Type: CommandMoveHero})
	}
	if loop.Pending() != 2 {
		t.Fatalf("expected 2 staged commands, got %d", loop.Pending())
	}
	if len(dropped) != 1 || dropped[0] != CommandRejectQueueLimit {
		t.Fatalf("expected one queue_limit drop, got %v", dropped)
	}
	loop.Advance(context.Background(), time.Millisecond)
	if ok, _ := loop.Enqueue(Command{Participant: 7, Type: CommandMoveHero}); !ok {
		t.Fatalf("expected limit to reset after a step")
	}
}

func TestLoopRejectsWhenBufferFull(t *testing.T) {
	loop := NewLoop(&recordingStepper{}, LoopConfig{CommandCapacity: 1}, LoopHooks{}, Deps{})
	loop.Enqueue(Command{Type: CommandRestart})
	ok, reason := loop.Enqueue(Command{Type: CommandRestart})
	if ok || reason != CommandRejectQueueFull {
		t.Fatalf("expected queue_full, got %v %s", ok, reason)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	stepper := &recordingStepper{}
	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	steps := make(chan LoopStepResult, 16)
	loop := NewLoop(stepper, LoopConfig{TickRate: 200, CatchupMaxTicks: 2}, LoopHooks{
		AfterStep: func(result LoopStepResult) {
			select {
			case steps <- result:
			default:
			}
			if result.Tick >= 3 {
				once.Do(cancel)
			}
		},
	}, Deps{})

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatalf("loop did not stop")
	}
	first := <-steps
	if first.Budget != 5*time.Millisecond || first.Delta > first.MaxDelta {
		t.Fatalf("unexpected step timing %+v", first)
	}
}
