package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	snapshot := augur.NewSnapshot(800_000, ts, map[int]uint64{10: 500, -5: 999, 20: 0})

	require.NoError(t, store.Save(snapshot))

	loaded, err := store.Load(ts.Add(-time.Hour), ts.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	assert.Equal(t, snapshot.BlockHeight, loaded[0].BlockHeight)
	assert.True(t, snapshot.Timestamp.Equal(loaded[0].Timestamp))
	assert.Equal(t, map[int]uint64{10: 500, -5: 999}, loaded[0].BucketedWeights, "negative bucket indices survive persistence; only the dense array filters them")
}

func TestLoadFiltersOutsideRange(t *testing.T) {
	store := newTestStore(t)

	inRange := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(augur.NewSnapshot(1, inRange, map[int]uint64{1: 1})))
	require.NoError(t, store.Save(augur.NewSnapshot(2, outOfRange, map[int]uint64{1: 1})))

	loaded, err := store.Load(inRange.Add(-time.Hour), inRange.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, uint32(1), loaded[0].BlockHeight)
}

func TestLoadSpansMultipleDayDirectories(t *testing.T) {
	store := newTestStore(t)

	day1 := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(augur.NewSnapshot(1, day1, map[int]uint64{1: 1})))
	require.NoError(t, store.Save(augur.NewSnapshot(2, day2, map[int]uint64{1: 1})))

	loaded, err := store.Load(day1.Add(-time.Minute), day2.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestLatestSnapshotReturnsNilWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.LatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestLatestSnapshotReturnsMostRecent(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().UTC()
	require.NoError(t, store.Save(augur.NewSnapshot(1, now.Add(-time.Hour), map[int]uint64{1: 1})))
	require.NoError(t, store.Save(augur.NewSnapshot(2, now, map[int]uint64{1: 1})))

	latest, err := store.LatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, uint32(2), latest.BlockHeight)
}

func TestCleanupRemovesExpiredDayDirectories(t *testing.T) {
	store := newTestStore(t)

	old := time.Now().UTC().AddDate(0, 0, -10)
	recent := time.Now().UTC()

	require.NoError(t, store.Save(augur.NewSnapshot(1, old, map[int]uint64{1: 1})))
	require.NoError(t, store.Save(augur.NewSnapshot(2, recent, map[int]uint64{1: 1})))

	require.NoError(t, store.Cleanup(7*24*time.Hour))

	loaded, err := store.Load(old.AddDate(0, 0, -1), recent.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, uint32(2), loaded[0].BlockHeight)
}
