package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mausam/bucketstats/pkg/aggregate"
	"github.com/mausam/bucketstats/pkg/bucket"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSummaries() []aggregate.Summary {
	return []aggregate.Summary{
		{
			Metric:  "CPU",
			Date:    bucket.Date{Year: 2024, Month: time.January, Day: 1},
			Bucket:  0,
			Average: 15,
			Min:     10,
			Max:     20,
			Count:   2,
		},
		{
			Metric:  "CPU",
			Date:    bucket.Date{Year: 2024, Month: time.January, Day: 1},
			Bucket:  1,
			Average: 7,
			Min:     7,
			Max:     7,
			Count:   1,
		},
		{
			Metric:  "Memory",
			Date:    bucket.Date{Year: 2024, Month: time.February, Day: 3},
			Bucket:  5,
			Average: 0.5,
			Min:     -1,
			Max:     2,
			Count:   4,
		},
	}
}

func TestStore_WriteAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, testSummaries()))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, testSummaries(), got)
}

func TestStore_Get(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	summaries := testSummaries()
	require.NoError(t, store.Write(ctx, summaries))

	got, found, err := store.Get(ctx, summaries[2].Key())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, summaries[2], got)

	_, found, err = store.Get(ctx, aggregate.GroupKey{
		Metric: "Disk",
		Date:   bucket.Date{Year: 2024, Month: time.January, Day: 1},
		Bucket: 0,
	})
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_WriteReplacesPreviousRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, testSummaries()))

	replacement := testSummaries()[:1]
	require.NoError(t, store.Write(ctx, replacement))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, replacement, got)
}

func TestStore_EmptyWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, nil))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
