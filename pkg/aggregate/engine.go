package aggregate

import (
	"sort"

	"github.com/mausam/bucketstats/pkg/bucket"
	"github.com/mausam/bucketstats/pkg/record"
)

// GroupKey identifies one aggregation group: a metric on a calendar day,
// within one time bucket of that day.
type GroupKey struct {
	Metric string
	Date   bucket.Date
	Bucket int
}

// Less orders keys lexicographically by (metric, date, bucket).
func (k GroupKey) Less(other GroupKey) bool {
	if k.Metric != other.Metric {
		return k.Metric < other.Metric
	}
	if k.Date != other.Date {
		return k.Date.Before(other.Date)
	}
	return k.Bucket < other.Bucket
}

// Summary is the finalized statistics for one group. Count is carried along
// so sinks can store re-aggregatable state, not just the resolved average.
type Summary struct {
	Metric  string      `json:"metric"`
	Date    bucket.Date `json:"date"`
	Bucket  int         `json:"bucket"`
	Average float64     `json:"average"`
	Min     float64     `json:"min"`
	Max     float64     `json:"max"`
	Count   uint64      `json:"count"`
}

// Key returns the group key of the summary.
func (s Summary) Key() GroupKey {
	return GroupKey{Metric: s.Metric, Date: s.Date, Bucket: s.Bucket}
}

// Engine accumulates per-group statistics over a single pass of the input.
// It exclusively owns its group map for the lifetime of one run: ingest
// everything, finalize once, discard.
//
// An Engine is not safe for concurrent use. For parallel ingestion run one
// Engine per goroutine and fold the partials together with Merge (see
// ShardedEngine).
type Engine struct {
	durationHours int
	groups        map[GroupKey]*Accumulator
}

// NewEngine creates an engine for the given bucket duration. Callers
// guarantee 1 <= durationHours <= 24 (validated at configuration time).
func NewEngine(durationHours int) *Engine {
	return &Engine{
		durationHours: durationHours,
		groups:        make(map[GroupKey]*Accumulator),
	}
}

// Ingest folds one record into its group, creating the group's accumulator
// on first sight.
func (e *Engine) Ingest(r record.Record) {
	key := GroupKey{
		Metric: r.Metric,
		Date:   bucket.DateOf(r.Timestamp),
		Bucket: bucket.Assign(r.Timestamp.Hour(), e.durationHours),
	}

	if acc, ok := e.groups[key]; ok {
		acc.Observe(r.Value)
	} else {
		e.groups[key] = NewAccumulator(r.Value)
	}
}

// Merge folds another engine's partial groups into this one.
func (e *Engine) Merge(other *Engine) {
	for key, acc := range other.groups {
		if mine, ok := e.groups[key]; ok {
			mine.Combine(acc)
		} else {
			e.groups[key] = acc
		}
	}
}

// Finalize resolves every group into a Summary. Averages are computed here,
// once, from sum and count. A group is not observable before finalize because
// further records for any key may arrive in any order until end of input.
// The result is unordered; see Order.
func (e *Engine) Finalize() []Summary {
	summaries := make([]Summary, 0, len(e.groups))
	for key, acc := range e.groups {
		summaries = append(summaries, Summary{
			Metric:  key.Metric,
			Date:    key.Date,
			Bucket:  key.Bucket,
			Average: acc.Average(),
			Min:     acc.Min,
			Max:     acc.Max,
			Count:   acc.Count,
		})
	}
	return summaries
}

// Groups returns the number of groups observed so far.
func (e *Engine) Groups() int {
	return len(e.groups)
}

// Order sorts summaries ascending by (metric, date, bucket). Group keys are
// unique per summary, so the ordering is total and the output deterministic.
func Order(summaries []Summary) {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Key().Less(summaries[j].Key())
	})
}
