package wait

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// TimeoutBlocking behaves like Blocking but bounds the wait to a configured
// timeout. When the timeout elapses before target is visible, it returns the
// last observed sequence and ErrTimeout rather than blocking forever; the
// caller decides whether to retry or surface the timeout.
type TimeoutBlocking struct {
	version uint32
	timeout time.Duration
}

// NewTimeoutBlocking returns a TimeoutBlocking strategy with the given
// per-wait timeout.
func NewTimeoutBlocking(timeout time.Duration) *TimeoutBlocking {
	return &TimeoutBlocking{timeout: timeout}
}

func (t *TimeoutBlocking) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	deadline := time.Now().Add(t.timeout)
	if ctx != nil && ctx.Done() != nil {
		// Cancellation wakes parked waiters the same way a signal does.
		stop := context.AfterFunc(ctx, t.SignalAllWhenBlocking)
		defer stop()
	}
	for {
		v := observe(cursor, dependents)
		if v >= target {
			return v, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return v, ErrTimeout
		}
		ver := atomic.LoadUint32(&t.version)
		if err := ctxErr(ctx); err != nil {
			return observe(cursor, dependents), err
		}
		if v = observe(cursor, dependents); v >= target {
			return v, nil
		}
		_ = parkWait(&t.version, ver, remaining.Nanoseconds())
	}
}

func (t *TimeoutBlocking) SignalAllWhenBlocking() {
	atomic.AddUint32(&t.version, 1)
	parkWake(&t.version)
}
