/*
Package aggregate implements the single-pass bucket aggregation at the heart
of bucketstats.

# The Algorithm

Every record maps to a group key (metric, calendar date, bucket index), where
the bucket index is the record's hour of day divided by the configured bucket
duration. Each group owns one accumulator holding running (count, sum, min,
max). The average is never tracked incrementally; it is resolved exactly once
at finalize time as sum/count.

	Input (bucket duration = 4h):
	  CPU  2024-01-01T02:00:00  10
	  CPU  2024-01-01T03:00:00  20

	Group (CPU, 2024-01-01, bucket 0):
	  count=2  sum=30  min=10  max=20  →  average=15

# Lifecycle

Accumulate, then read:

	engine := aggregate.NewEngine(4)
	for _, r := range records {
	    engine.Ingest(r)
	}
	summaries := engine.Finalize()
	aggregate.Order(summaries)

No group is observable before Finalize: input arrives in arbitrary order, so
any key may still receive records until the input is exhausted.

# Parallel Aggregation

Accumulator.Combine is associative and commutative, which makes partial
aggregation safe: any partition of the input can be aggregated independently
and merged. ShardedEngine uses this to ingest over N goroutines and produces
results identical to the sequential engine.
*/
package aggregate
