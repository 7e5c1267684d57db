package job

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mausam/bucketstats/pkg/aggregate"
	"github.com/mausam/bucketstats/pkg/config"
	"github.com/mausam/bucketstats/pkg/record"
	"github.com/mausam/bucketstats/pkg/sink"
)

// Result summarizes one run. Skipped rows are surfaced as a count, not as
// per-row messages, so a noisy input does not flood the logs.
type Result struct {
	RowsRead    int
	RowsSkipped int
	Groups      int
	Elapsed     time.Duration
}

// ingester is satisfied by both the sequential and the sharded engine.
type ingester interface {
	Ingest(record.Record)
	Finalize() []aggregate.Summary
}

// Run executes one full pass: validate, read, parse, aggregate, order, write.
// Configuration errors fail before the input is opened; after that the only
// fatal errors are I/O. Each run is a clean, stateless recompute.
func Run(ctx context.Context, cfg config.Config, sinks ...sink.Sink) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	summaries, res, err := Aggregate(ctx, f, cfg)
	if err != nil {
		return nil, err
	}

	aggregate.Order(summaries)
	res.Groups = len(summaries)

	for _, s := range sinks {
		if err := s.Write(ctx, summaries); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// Aggregate streams delimited rows from r through the parser into an engine
// and returns the unordered summaries plus row counters. Split from Run so
// the core pipeline can be driven from any reader, not just a file.
func Aggregate(ctx context.Context, r io.Reader, cfg config.Config) ([]aggregate.Summary, *Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = cfg.DelimiterRune()
	reader.ReuseRecord = true
	// The parser owns the field-count policy: a short or long row is a
	// skippable malformed row, not a reader error.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("input is empty: missing header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	parser, err := record.NewParser(header)
	if err != nil {
		return nil, nil, err
	}

	var engine ingester
	if cfg.Workers > 1 {
		engine = aggregate.NewShardedEngine(cfg.BucketDurationHours, cfg.Workers)
	} else {
		engine = aggregate.NewEngine(cfg.BucketDurationHours)
	}

	res := &Result{}
	for {
		if res.RowsRead%1000 == 0 {
			select {
			case <-ctx.Done():
				// Finalize stops any sharded workers before we bail.
				engine.Finalize()
				return nil, nil, ctx.Err()
			default:
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Reader-level failures (stray quotes and the like) are
			// malformed rows too: skip, count, keep going.
			res.RowsRead++
			res.RowsSkipped++
			continue
		}

		res.RowsRead++
		rec, err := parser.Parse(row)
		if err != nil {
			res.RowsSkipped++
			continue
		}
		engine.Ingest(rec)
	}

	return engine.Finalize(), res, nil
}
