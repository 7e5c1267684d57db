package memory

import (
	"context"
	"sync"

	"github.com/mausam/bucketstats/pkg/aggregate"
)

// Sink captures summaries in memory. Data is lost when the sink goes away.
// Useful for testing and development.
type Sink struct {
	mu        sync.Mutex
	summaries []aggregate.Summary
	writes    int
}

// New creates an in-memory sink.
func New() *Sink {
	return &Sink{}
}

// Write replaces the captured summary set, mirroring the overwrite semantics
// of the real sinks.
func (s *Sink) Write(ctx context.Context, summaries []aggregate.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries = append([]aggregate.Summary(nil), summaries...)
	s.writes++
	return nil
}

// Summaries returns a copy of the last written summary set.
func (s *Sink) Summaries() []aggregate.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]aggregate.Summary(nil), s.summaries...)
}

// Writes returns how many times Write has been called.
func (s *Sink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writes
}

// Close is a no-op for the memory sink.
func (s *Sink) Close() error {
	return nil
}
