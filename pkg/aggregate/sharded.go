package aggregate

import (
	"sync"

	"github.com/mausam/bucketstats/pkg/record"
)

const shardChannelBuffer = 256

// ShardedEngine fans records out to worker-owned engines and merges the
// partial group maps at finalize. Because Combine is associative and
// commutative, the merged result is identical to a sequential pass no matter
// how records were distributed across workers.
//
// Ingest and Finalize follow the same accumulate-then-read lifecycle as
// Engine: calling Ingest after Finalize is not supported.
type ShardedEngine struct {
	engines []*Engine
	rows    chan record.Record
	wg      sync.WaitGroup
}

// NewShardedEngine starts one ingesting goroutine per worker.
func NewShardedEngine(durationHours, workers int) *ShardedEngine {
	s := &ShardedEngine{
		engines: make([]*Engine, workers),
		rows:    make(chan record.Record, shardChannelBuffer),
	}

	s.wg.Add(workers)
	for i := range s.engines {
		engine := NewEngine(durationHours)
		s.engines[i] = engine
		go func() {
			defer s.wg.Done()
			for r := range s.rows {
				engine.Ingest(r)
			}
		}()
	}

	return s
}

// Ingest hands a record to whichever worker picks it up first. Assignment of
// records to workers is arbitrary; the merge step makes it irrelevant.
func (s *ShardedEngine) Ingest(r record.Record) {
	s.rows <- r
}

// Finalize stops the workers, merges their partial groups, and resolves the
// summaries.
func (s *ShardedEngine) Finalize() []Summary {
	close(s.rows)
	s.wg.Wait()

	merged := s.engines[0]
	for _, e := range s.engines[1:] {
		merged.Merge(e)
	}
	return merged.Finalize()
}
