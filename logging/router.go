package logging

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

// Router fans events out to sinks on background workers. Publish never blocks
// the caller; events are dropped when the queue is full.
type Router struct {
	cfg      Config
	clock    Clock
	fallback *log.Logger
	queue    chan Event
	workers  []*sinkWorker
	fields   map[string]any

	stop   chan struct{}
	wg     sync.WaitGroup
	closed atomic.Bool

	published   atomic.Uint64
	dropped     atomic.Uint64
	nextDropLog atomic.Int64
}

type RouterStats struct {
	Published uint64
	Dropped   uint64
}

func NewRouter(cfg Config, clock Clock, fallback *log.Logger, sinks map[string]Sink) *Router {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	if fallback == nil {
		fallback = log.Default()
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = DefaultConfig().BufferSize
	}
	r := &Router{
		cfg:      cfg,
		clock:    clock,
		fallback: fallback,
		queue:    make(chan Event, size),
		fields:   copyExtra(cfg.Fields),
		stop:     make(chan struct{}),
	}
	for name, sink := range sinks {
		if sink == nil {
			continue
		}
		r.workers = append(r.workers, &sinkWorker{
			name:     name,
			sink:     sink,
			events:   make(chan Event, size),
			fallback: fallback,
		})
	}
	r.wg.Add(1)
	go r.dispatch()
	for _, w := range r.workers {
		r.wg.Add(1)
		go func(w *sinkWorker) {
			defer r.wg.Done()
			w.run()
		}(w)
	}
	return r
}

func (r *Router) dispatch() {
	defer func() {
		for _, w := range r.workers {
			close(w.events)
		}
		r.wg.Done()
	}()
	for {
		select {
		case <-r.stop:
			for {
				select {
				case event := <-r.queue:
					r.forward(event)
				default:
					return
				}
			}
		case event := <-r.queue:
			r.forward(event)
		}
	}
}

func (r *Router) forward(event Event) {
	if event.Severity < r.cfg.MinimumSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = mergeFields(event, r.fields)
	r.published.Add(1)
	for _, w := range r.workers {
		select {
		case w.events <- event.Clone():
		default:
			r.fallback.Printf("sink %s backlog full, dropping %s", w.name, event.Type)
		}
	}
}

func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || r.closed.Load() {
		return
	}
	select {
	case r.queue <- event:
	default:
		r.dropped.Add(1)
		r.warnDrop(event)
	}
}

func (r *Router) warnDrop(event Event) {
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	now := time.Now().UnixNano()
	next := r.nextDropLog.Load()
	if now >= next && r.nextDropLog.CompareAndSwap(next, now+interval.Nanoseconds()) {
		r.fallback.Printf("dropping event type=%s tick=%d", event.Type, event.Tick)
	}
}

func (r *Router) Stats() RouterStats {
	return RouterStats{Published: r.published.Load(), Dropped: r.dropped.Load()}
}

// Close drains queued events into the sinks and closes them.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.stop)
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var firstErr error
	for _, w := range r.workers {
		if err := w.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type sinkWorker struct {
	name      string
	sink      Sink
	events    chan Event
	fallback  *log.Logger
	failures  int
	nextRetry time.Time
}

func (w *sinkWorker) run() {
	for event := range w.events {
		if w.failures > 0 {
			if wait := time.Until(w.nextRetry); wait > 0 {
				time.Sleep(wait)
			}
		}
		if err := w.sink.Write(event); err != nil {
			w.failures++
			delay := time.Duration(1<<min(w.failures, 5)) * time.Second
			w.nextRetry = time.Now().Add(delay)
			w.fallback.Printf("sink %s failed: %v (retry in %s)", w.name, err, delay)
			continue
		}
		w.failures = 0
	}
}
