package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Required input columns. Header matching is case-sensitive and exact.
const (
	ColumnMetric    = "Metric"
	ColumnTimestamp = "Timestamp"
	ColumnValue     = "Value"
)

// ErrMalformedRow marks a data row that cannot be parsed. Rows failing with
// this error are skipped and counted by the driver; a single bad row never
// aborts the run.
var ErrMalformedRow = errors.New("malformed row")

// timestampLayouts are tried in order. Layouts without a zone are read as UTC,
// matching the single fixed timestamp interpretation of the job.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Record is one parsed time-series observation.
type Record struct {
	Metric    string
	Timestamp time.Time
	Value     float64
}

// Parser converts raw delimited rows into Records using column positions
// resolved once from the header row.
type Parser struct {
	metricIdx    int
	timestampIdx int
	valueIdx     int
	width        int
}

// NewParser resolves the required column positions from the header row.
// A missing column is a configuration-level failure, surfaced before any
// data row is processed. Extra columns are allowed and ignored.
func NewParser(header []string) (*Parser, error) {
	p := &Parser{metricIdx: -1, timestampIdx: -1, valueIdx: -1, width: len(header)}
	for i, name := range header {
		switch name {
		case ColumnMetric:
			p.metricIdx = i
		case ColumnTimestamp:
			p.timestampIdx = i
		case ColumnValue:
			p.valueIdx = i
		}
	}
	switch {
	case p.metricIdx < 0:
		return nil, fmt.Errorf("input header is missing required column %q", ColumnMetric)
	case p.timestampIdx < 0:
		return nil, fmt.Errorf("input header is missing required column %q", ColumnTimestamp)
	case p.valueIdx < 0:
		return nil, fmt.Errorf("input header is missing required column %q", ColumnValue)
	}
	return p, nil
}

// Parse converts one data row into a Record. All failures wrap
// ErrMalformedRow so callers can distinguish skippable rows from real errors.
func (p *Parser) Parse(row []string) (Record, error) {
	if len(row) != p.width {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, p.width, len(row))
	}

	metric := strings.TrimSpace(row[p.metricIdx])
	if metric == "" {
		return Record{}, fmt.Errorf("%w: metric name is empty", ErrMalformedRow)
	}

	ts, err := parseTimestamp(strings.TrimSpace(row[p.timestampIdx]))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	rawValue := strings.TrimSpace(row[p.valueIdx])
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: value %q is not numeric", ErrMalformedRow, rawValue)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Record{}, fmt.Errorf("%w: value %q is not finite", ErrMalformedRow, rawValue)
	}

	return Record{Metric: metric, Timestamp: ts, Value: value}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
