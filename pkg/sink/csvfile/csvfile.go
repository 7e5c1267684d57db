package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mausam/bucketstats/pkg/aggregate"
	"github.com/mausam/bucketstats/pkg/bucket"
)

// Writer writes run summaries as a delimited file with a header row.
// The destination is truncated on every Write, matching the job's overwrite
// semantics.
type Writer struct {
	cfg Config
}

// Config holds CSV output configuration.
type Config struct {
	// Path of the output file. Created or truncated on Write.
	Path string

	// Delimiter used between fields. Usually the same character the input
	// was read with.
	Delimiter rune

	// DurationHours is the run's bucket duration, needed to render the
	// optional Range column.
	DurationHours int

	// IncludeRanges appends a human-readable wall-clock range per bucket,
	// e.g. "12:00:00 - 17:59:59".
	IncludeRanges bool
}

// New creates a CSV file writer.
func New(cfg Config) *Writer {
	return &Writer{cfg: cfg}
}

// Write renders the summaries in their given order, header first.
func (w *Writer) Write(ctx context.Context, summaries []aggregate.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(w.cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := csv.NewWriter(f)
	writer.Comma = w.cfg.Delimiter

	header := []string{"Metric", "Date", "Bucket", "Average", "Min", "Max"}
	if w.cfg.IncludeRanges {
		header = append(header, "Range")
	}
	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range summaries {
		row := []string{
			s.Metric,
			s.Date.String(),
			strconv.Itoa(s.Bucket),
			strconv.FormatFloat(s.Average, 'f', -1, 64),
			strconv.FormatFloat(s.Min, 'f', -1, 64),
			strconv.FormatFloat(s.Max, 'f', -1, 64),
		}
		if w.cfg.IncludeRanges {
			row = append(row, bucket.Range(s.Bucket, w.cfg.DurationHours))
		}
		if err := writer.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// Close is a no-op: the file handle only lives for the duration of a Write.
func (w *Writer) Close() error {
	return nil
}
