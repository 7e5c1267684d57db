package sink

import (
	"context"

	"github.com/mausam/bucketstats/pkg/aggregate"
)

// Sink receives the final ordered summaries of one run.
// Implementations: csvfile (primary file output), badger (queryable results
// store), memory (testing).
type Sink interface {
	// Write stores the complete summary set for a run, replacing whatever a
	// previous run left at the destination. The job has overwrite semantics:
	// there is no append or merge across runs.
	Write(ctx context.Context, summaries []aggregate.Summary) error

	// Close cleanly releases the destination.
	Close() error
}
