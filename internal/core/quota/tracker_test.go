package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrackerCountWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &Tracker{Clock: func() time.Time { return now }}

	tracker.Record(5)
	now = now.Add(20 * time.Second)
	tracker.Record(7)
	now = now.Add(20 * time.Second)
	tracker.Record(3)

	require.Equal(t, 15, tracker.CountWindow())

	// First bucket is now exactly 61s old and must fall out.
	now = now.Add(21 * time.Second)
	require.Equal(t, 10, tracker.CountWindow())
}

func TestTrackerSameSecondAggregates(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &Tracker{Clock: func() time.Time { return now }}

	tracker.Record(1)
	tracker.Record(100)
	tracker.Record(1)

	require.Equal(t, 1, tracker.Size())
	require.Equal(t, 102, tracker.CountWindow())
}

func TestTrackerWindowBoundary(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &Tracker{Clock: func() time.Time { return now }}

	tracker.Record(4)

	// A bucket aged exactly the window length is expired, one second younger
	// is not.
	now = now.Add(Window)
	require.Equal(t, 0, tracker.CountWindow())

	tracker.Clear()
	tracker.Record(4)
	now = now.Add(Window - time.Second)
	require.Equal(t, 4, tracker.CountWindow())
}

func TestTrackerCountPurgesExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &Tracker{Clock: func() time.Time { return now }}

	tracker.Record(2)
	now = now.Add(2 * Window)
	tracker.Record(9)

	require.Equal(t, 2, tracker.Size())
	require.Equal(t, 9, tracker.CountWindow())
	require.Equal(t, 1, tracker.Size())
}

func TestTrackerPurgeExpiredIdempotent(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &Tracker{Clock: func() time.Time { return now }}

	tracker.Record(2)
	now = now.Add(30 * time.Second)
	tracker.Record(6)
	now = now.Add(40 * time.Second)

	tracker.PurgeExpired()
	require.Equal(t, 1, tracker.Size())
	require.Equal(t, 6, tracker.CountWindow())

	tracker.PurgeExpired()
	require.Equal(t, 1, tracker.Size())
	require.Equal(t, 6, tracker.CountWindow())
}

func TestTrackerClear(t *testing.T) {
	tracker := &Tracker{}

	tracker.Record(10)
	tracker.Record(20)
	require.NotZero(t, tracker.Size())

	tracker.Clear()
	require.Equal(t, 0, tracker.Size())
	require.Equal(t, 0, tracker.CountWindow())
}
