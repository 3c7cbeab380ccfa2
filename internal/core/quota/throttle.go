package quota

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ThrottleConfig bounds the outbound call rate. Reserve is the capacity
// between the soft threshold and the hard per-minute ceiling; it sizes how
// steeply backoff grows.
type ThrottleConfig struct {
	Threshold         int
	MaxQuotaPerMinute int
	MaxWait           time.Duration
}

// DefaultThrottleConfig keeps a steady client well inside the provider's
// daily budget.
var DefaultThrottleConfig = ThrottleConfig{
	Threshold:         30,
	MaxQuotaPerMinute: 90,
	MaxWait:           time.Second,
}

// Reserve returns the capacity between threshold and ceiling.
func (c ThrottleConfig) Reserve() int {
	return c.MaxQuotaPerMinute - c.Threshold
}

// Utilization reports how much of the reserve a window of the given size
// consumes, clamped to [0, 1]. A non-positive reserve saturates immediately.
func (c ThrottleConfig) Utilization(window int) float64 {
	if window <= c.Threshold {
		return 0
	}
	reserve := c.Reserve()
	if reserve <= 0 {
		return 1
	}
	utilization := float64(window-c.Threshold) / float64(reserve)
	if utilization > 1 {
		utilization = 1
	}
	return utilization
}

// Warnings reports configuration smells. Checked once at wiring time; never a
// runtime failure.
func (c ThrottleConfig) Warnings() []string {
	var warnings []string
	if c.Reserve() < 60 {
		warnings = append(warnings, fmt.Sprintf(
			"throttle reserve is %d points; below 60 the wait cap no longer holds admissions to roughly one per second at saturation",
			c.Reserve()))
	}
	return warnings
}

// Admission describes one committed admission decision. The reservation it
// records is never refunded, even if the dispatched request fails.
type Admission struct {
	Cost        int
	Wait        time.Duration
	WindowAfter int
	DecidedAt   time.Time
}

// Throttle gates dispatch of quota-charged calls. Admission decisions are
// strictly serialized in submission order; the dispatched requests themselves
// run concurrently. Each decision reserves its cost in the ledger before the
// request executes, so the next queued caller already sees it.
type Throttle struct {
	Config  ThrottleConfig
	Tracker *Tracker

	// Clock overrides time.Now for tests.
	Clock func() time.Time
	// Sleep overrides the admission delay for tests.
	Sleep func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	tail chan struct{}
}

// NewThrottle builds a throttle over the given ledger. A zero config falls
// back to DefaultThrottleConfig.
func NewThrottle(cfg ThrottleConfig, tracker *Tracker) *Throttle {
	if cfg == (ThrottleConfig{}) {
		cfg = DefaultThrottleConfig
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultThrottleConfig.MaxWait
	}
	if tracker == nil {
		tracker = &Tracker{}
	}
	return &Throttle{Config: cfg, Tracker: tracker}
}

// Execute admits one call and then runs fn on the calling goroutine. The
// admitted cost is recorded before fn is invoked and the FIFO turn is released
// immediately after, so a slow request never delays the next admission. The
// error from fn is returned untouched; there are no retries here.
func (t *Throttle) Execute(ctx context.Context, cost int, fn func(context.Context) error) (Admission, error) {
	if t == nil || fn == nil {
		return Admission{}, errors.New("throttle: nothing to execute")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	turn, err := t.acquireTurn(ctx)
	if err != nil {
		return Admission{}, err
	}

	t.Tracker.PurgeExpired()
	window := t.Tracker.CountWindow()
	wait := t.admissionWait(window, cost)
	if wait > 0 {
		if err := t.sleep(ctx, wait); err != nil {
			t.releaseTurn(turn)
			return Admission{}, err
		}
	}

	t.Tracker.Record(cost)
	admission := Admission{
		Cost:        cost,
		Wait:        wait,
		WindowAfter: window + cost,
		DecidedAt:   t.now(),
	}
	t.releaseTurn(turn)

	return admission, fn(ctx)
}

// ProjectWait reports the delay a call of the given cost would incur if it
// were admitted right now. It takes no turn and reserves nothing.
func (t *Throttle) ProjectWait(cost int) time.Duration {
	if t == nil {
		return 0
	}
	t.Tracker.PurgeExpired()
	return t.admissionWait(t.Tracker.CountWindow(), cost)
}

// admissionWait computes the delay for a call that would bring the window to
// window+cost. The curve is quadratic in utilization of the reserve: gentle
// just above the threshold, capped at MaxWait as the reserve runs out.
func (t *Throttle) admissionWait(window, cost int) time.Duration {
	cfg := t.Config

	utilization := cfg.Utilization(window + cost)
	if utilization == 0 {
		return 0
	}

	maxMs := float64(cfg.MaxWait.Milliseconds())
	waitMs := math.Round(utilization * utilization * maxMs)
	if waitMs > maxMs {
		waitMs = maxMs
	}
	return time.Duration(waitMs) * time.Millisecond
}

// acquireTurn appends the caller to the admission chain and blocks until every
// earlier turn has been released. Submission order is the order callers reach
// the tail swap.
func (t *Throttle) acquireTurn(ctx context.Context) (chan struct{}, error) {
	turn := make(chan struct{})

	t.mu.Lock()
	prev := t.tail
	t.tail = turn
	t.mu.Unlock()

	if prev == nil {
		return turn, nil
	}

	select {
	case <-prev:
		return turn, nil
	case <-ctx.Done():
		// Hand the turn along once it arrives so the chain never stalls on
		// an abandoned caller.
		go func() {
			<-prev
			close(turn)
		}()
		return nil, ctx.Err()
	}
}

func (t *Throttle) releaseTurn(turn chan struct{}) {
	close(turn)
}

func (t *Throttle) sleep(ctx context.Context, d time.Duration) error {
	if t.Sleep != nil {
		return t.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Throttle) now() time.Time {
	if t != nil && t.Clock != nil {
		return t.Clock()
	}
	return time.Now().UTC()
}
