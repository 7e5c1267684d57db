package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"github.com/mausam/bucketstats/pkg/aggregate"
)

// Store keeps a run's summaries in BadgerDB so they can be inspected later
// without re-reading the raw input. Each Write replaces the previous run's
// contents: the store always reflects exactly one run.
type Store struct {
	db *badger.DB
}

// Config holds BadgerDB configuration.
type Config struct {
	// Path to store database files
	Path string

	// InMemory mode (for testing)
	InMemory bool
}

// New opens a BadgerDB-backed results store.
func New(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}
	// Badger's default logger is chatty on stderr; the job logs its own
	// run summary instead.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Write replaces the stored summary set with this run's results.
func (s *Store) Write(ctx context.Context, summaries []aggregate.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Overwrite semantics: drop whatever the previous run wrote.
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("failed to clear previous results: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for i, summary := range summaries {
			// Check context periodically (every 100 summaries)
			if i%100 == 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}

			value, err := json.Marshal(summary)
			if err != nil {
				return fmt.Errorf("failed to encode summary: %w", err)
			}
			if err := txn.Set(makeKey(summary.Key()), value); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
		return nil
	})
}

// Get returns the stored summary for one group key, if present.
func (s *Store) Get(ctx context.Context, key aggregate.GroupKey) (aggregate.Summary, bool, error) {
	if err := ctx.Err(); err != nil {
		return aggregate.Summary{}, false, err
	}

	var summary aggregate.Summary
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &summary)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return aggregate.Summary{}, false, nil
	}
	if err != nil {
		return aggregate.Summary{}, false, fmt.Errorf("failed to read summary: %w", err)
	}
	return summary, true, nil
}

// List returns every stored summary, ordered by (metric, date, bucket).
func (s *Store) List(ctx context.Context) ([]aggregate.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var summaries []aggregate.Summary
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		var count int
		for it.Rewind(); it.Valid(); it.Next() {
			count++
			if count%1000 == 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}

			err := it.Item().Value(func(val []byte) error {
				var summary aggregate.Summary
				if err := json.Unmarshal(val, &summary); err != nil {
					return err
				}
				summaries = append(summaries, summary)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	// Keys sort by metric hash, not metric name, so re-establish the
	// deterministic output order here.
	aggregate.Order(summaries)
	return summaries, nil
}

// Close shuts down BadgerDB cleanly.
func (s *Store) Close() error {
	return s.db.Close()
}

// makeKey builds a 13-byte key: metric hash, packed date, bucket index.
// Format: [metric xxhash (8 bytes)][year<<9|month<<5|day (4 bytes)][bucket (1 byte)]
// Keys for one metric sort chronologically, then by bucket.
func makeKey(key aggregate.GroupKey) []byte {
	packed := uint32(key.Date.Year)<<9 | uint32(key.Date.Month)<<5 | uint32(key.Date.Day)

	buf := make([]byte, 13)
	binary.BigEndian.PutUint64(buf[0:8], xxhash.Sum64String(key.Metric))
	binary.BigEndian.PutUint32(buf[8:12], packed)
	buf[12] = byte(key.Bucket)
	return buf
}
