package quota

import (
	"sync"
	"time"
)

// Window is the trailing interval over which consumption is measured.
const Window = time.Minute

// Tracker is a sliding-window ledger of consumed quota points. Points are
// aggregated into one bucket per whole second; buckets older than Window are
// expired lazily. A Tracker belongs to a single client instance and is never
// shared across processes.
type Tracker struct {
	// Clock overrides time.Now for tests.
	Clock func() time.Time

	mu      sync.Mutex
	buckets map[int64]int
}

// Record adds points to the bucket for the current second. Multiple calls
// within the same second aggregate into one bucket.
func (t *Tracker) Record(points int) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.buckets == nil {
		t.buckets = make(map[int64]int)
	}
	t.buckets[t.now().Unix()] += points
}

// CountWindow sums the points consumed in the trailing window. Buckets at or
// below the cutoff are dropped on the way through.
func (t *Tracker) CountWindow() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.cutoff()
	total := 0
	for ts, points := range t.buckets {
		if ts <= cutoff {
			delete(t.buckets, ts)
			continue
		}
		total += points
	}
	return total
}

// PurgeExpired removes buckets that have left the window. Calling it again
// immediately removes nothing further.
func (t *Tracker) PurgeExpired() {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.cutoff()
	for ts := range t.buckets {
		if ts <= cutoff {
			delete(t.buckets, ts)
		}
	}
}

// Clear drops every bucket regardless of age.
func (t *Tracker) Clear() {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.buckets = nil
}

// Size reports the number of live buckets, expired or not.
func (t *Tracker) Size() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

// cutoff returns the newest expired bucket timestamp. Caller must hold the lock.
func (t *Tracker) cutoff() int64 {
	return t.now().Add(-Window).Unix()
}

func (t *Tracker) now() time.Time {
	if t != nil && t.Clock != nil {
		return t.Clock()
	}
	return time.Now().UTC()
}
