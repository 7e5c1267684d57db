/*
Package sink provides the pluggable output abstraction for run summaries.

# Sink Interface

The job core produces an ordered []aggregate.Summary and hands it to one or
more sinks:

	type Sink interface {
	    Write(ctx context.Context, summaries []aggregate.Summary) error
	    Close() error
	}

Implementations:

  - csvfile: the primary output — a delimited file with a header row,
    truncated on every run (overwrite semantics, no append or merge)
  - badger: an optional BadgerDB results store so the latest run stays
    queryable without re-reading the raw input
  - memory: in-memory capture for tests

# Overwrite Semantics

Every run is a clean, stateless recompute. Write therefore always replaces
the destination's previous contents: csvfile truncates the file, badger drops
all prior keys before writing.
*/
package sink
