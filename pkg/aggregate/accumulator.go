package aggregate

// Accumulator holds the running statistics for one group.
//
// We store sum and count rather than a running average so that:
//   - the average is computed exactly once, at finalize time, avoiding the
//     compounding rounding error of an incremental mean
//   - partial accumulators from independent shards merge losslessly
type Accumulator struct {
	Count uint64
	Sum   float64
	Min   float64
	Max   float64
}

// NewAccumulator seeds an accumulator from the first observed value.
func NewAccumulator(value float64) *Accumulator {
	return &Accumulator{Count: 1, Sum: value, Min: value, Max: value}
}

// Observe folds one more value into the running statistics.
func (a *Accumulator) Observe(value float64) {
	a.Count++
	a.Sum += value
	if value < a.Min {
		a.Min = value
	}
	if value > a.Max {
		a.Max = value
	}
}

// Combine merges another accumulator into this one. The operation is
// associative and commutative, so accumulators built over any partitioning
// of the input merge to the same result as a single sequential pass.
func (a *Accumulator) Combine(b *Accumulator) {
	a.Count += b.Count
	a.Sum += b.Sum
	if b.Min < a.Min {
		a.Min = b.Min
	}
	if b.Max > a.Max {
		a.Max = b.Max
	}
}

// Average calculates the mean value.
func (a *Accumulator) Average() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}
