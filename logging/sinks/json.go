package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"titan-siege/server/logging"
)

// JSON emits newline-delimited events. With a positive flush interval writes
// are buffered and flushed periodically, otherwise every event is flushed.
type JSON struct {
	mu      sync.Mutex
	closer  io.Closer
	writer  *bufio.Writer
	encoder *json.Encoder
	flush   bool
	done    chan struct{}
}

func NewJSON(w io.WriteCloser, flushInterval time.Duration) *JSON {
	buf := bufio.NewWriter(w)
	sink := &JSON{closer: w, writer: buf, encoder: json.NewEncoder(buf), flush: flushInterval <= 0, done: make(chan struct{})}
	if flushInterval > 0 {
		go sink.flushLoop(flushInterval)
	}
	return sink
}

func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encoder.Encode(event); err != nil {
		return err
	}
	if s.flush {
		return s.writer.Flush()
	}
	return nil
}

func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}
	if err := s.writer.Flush(); err != nil {
		return err
	}
	return s.closer.Close()
}

func (s *JSON) flushLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.writer.Flush()
			s.mu.Unlock()
		}
	}
}
