package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestThrottle(cfg ThrottleConfig) (*Throttle, *[]time.Duration) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &Tracker{Clock: func() time.Time { return now }}

	waits := &[]time.Duration{}
	throttle := NewThrottle(cfg, tracker)
	throttle.Clock = func() time.Time { return now }
	throttle.Sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return throttle, waits
}

func TestThrottleNoWaitUnderThreshold(t *testing.T) {
	throttle, waits := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})
	throttle.Tracker.Record(29)

	admission, err := throttle.Execute(context.Background(), 1, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), admission.Wait)
	require.Equal(t, 30, admission.WindowAfter)
	require.Empty(t, *waits)
	require.Equal(t, 30, throttle.Tracker.CountWindow())
}

func TestThrottleWaitCapsAtCeiling(t *testing.T) {
	throttle, waits := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})
	throttle.Tracker.Record(89)

	admission, err := throttle.Execute(context.Background(), 1, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, time.Second, admission.Wait)
	require.Equal(t, []time.Duration{time.Second}, *waits)

	// Past the ceiling the wait stays pinned at the cap.
	admission, err = throttle.Execute(context.Background(), 100, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, time.Second, admission.Wait)
}

func TestThrottleQuadraticCurve(t *testing.T) {
	throttle, waits := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})
	throttle.Tracker.Record(50)

	// afterRequest 60 puts utilization at 0.5; the quadratic curve gives
	// 250ms, not the 500ms a linear one would.
	admission, err := throttle.Execute(context.Background(), 10, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, admission.Wait)
	require.Equal(t, []time.Duration{250 * time.Millisecond}, *waits)
}

func TestThrottleZeroThresholdThrottlesEveryCall(t *testing.T) {
	throttle, _ := newTestThrottle(ThrottleConfig{Threshold: 0, MaxQuotaPerMinute: 60, MaxWait: time.Second})

	admission, err := throttle.Execute(context.Background(), 8, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 18*time.Millisecond, admission.Wait)
}

func TestThrottleReservationVisibleBeforeCompletion(t *testing.T) {
	throttle, _ := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	var first Admission
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = throttle.Execute(context.Background(), 10, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	// Once the first request is executing, its reservation is committed and
	// the turn is free even though the request is still in flight.
	<-started
	second, err := throttle.Execute(context.Background(), 5, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 15, second.WindowAfter)

	third, err := throttle.Execute(context.Background(), 5, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 20, third.WindowAfter)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	require.Equal(t, 10, first.WindowAfter)
	require.Equal(t, 20, throttle.Tracker.CountWindow())
}

func TestThrottleFailurePropagatesWithoutRefund(t *testing.T) {
	throttle, _ := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})

	boom := errors.New("upstream rejected the call")
	_, err := throttle.Execute(context.Background(), 10, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	// Spent points stay spent.
	require.Equal(t, 10, throttle.Tracker.CountWindow())
}

func TestThrottleConcurrentSubmissions(t *testing.T) {
	throttle, _ := newTestThrottle(ThrottleConfig{Threshold: 1000, MaxQuotaPerMinute: 2000, MaxWait: time.Second})

	errs := make(chan error, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := throttle.Execute(context.Background(), 1, func(context.Context) error { return nil })
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 20, throttle.Tracker.CountWindow())
}

func TestThrottleCanceledWhileQueued(t *testing.T) {
	throttle, _ := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})

	holding := make(chan struct{})
	release := make(chan struct{})
	throttle.Tracker.Record(89)
	throttle.Sleep = func(context.Context, time.Duration) error {
		close(holding)
		<-release
		return nil
	}

	var wg sync.WaitGroup
	var heldErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, heldErr = throttle.Execute(context.Background(), 1, func(context.Context) error { return nil })
	}()
	<-holding

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := throttle.Execute(ctx, 1, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	wg.Wait()
	require.NoError(t, heldErr)

	// The abandoned turn was handed along; the queue still moves and the
	// canceled caller reserved nothing.
	throttle.Sleep = func(context.Context, time.Duration) error { return nil }
	admission, err := throttle.Execute(context.Background(), 1, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 91, admission.WindowAfter)
}

func TestThrottleConfigWarnings(t *testing.T) {
	require.Empty(t, DefaultThrottleConfig.Warnings())
	require.Empty(t, ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90}.Warnings())

	warnings := ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 80}.Warnings()
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "reserve")
}

func TestNewThrottleDefaults(t *testing.T) {
	throttle := NewThrottle(ThrottleConfig{}, nil)
	require.Equal(t, DefaultThrottleConfig, throttle.Config)
	require.NotNil(t, throttle.Tracker)

	throttle = NewThrottle(ThrottleConfig{Threshold: 10, MaxQuotaPerMinute: 40}, nil)
	require.Equal(t, 10, throttle.Config.Threshold)
	require.Equal(t, DefaultThrottleConfig.MaxWait, throttle.Config.MaxWait)
}

func TestThrottleConfigUtilization(t *testing.T) {
	cfg := ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second}

	require.Equal(t, 0.0, cfg.Utilization(0))
	require.Equal(t, 0.0, cfg.Utilization(30))
	require.Equal(t, 0.5, cfg.Utilization(60))
	require.Equal(t, 1.0, cfg.Utilization(90))
	require.Equal(t, 1.0, cfg.Utilization(500))

	// No reserve means any spend past the threshold is saturation.
	inverted := ThrottleConfig{Threshold: 50, MaxQuotaPerMinute: 40}
	require.Equal(t, 1.0, inverted.Utilization(51))
}

func TestThrottleProjectWait(t *testing.T) {
	throttle, waits := newTestThrottle(ThrottleConfig{Threshold: 30, MaxQuotaPerMinute: 90, MaxWait: time.Second})
	throttle.Tracker.Record(59)

	// Projection matches what Execute would charge, without reserving.
	require.Equal(t, 250*time.Millisecond, throttle.ProjectWait(1))
	require.Equal(t, 59, throttle.Tracker.CountWindow())
	require.Empty(t, *waits)

	require.Equal(t, time.Duration(0), (*Throttle)(nil).ProjectWait(1))
}
