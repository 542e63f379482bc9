package wait

import (
	"context"
	"sync/atomic"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// Blocking parks the calling goroutine until a producer calls
// SignalAllWhenBlocking, using the version-counter futex pattern: a waiter
// snapshots the counter, rechecks its condition, and only then parks on the
// snapshotted value so a signal that lands between the check and the park
// is never lost. Fairness (wake order among multiple waiters) is not
// guaranteed.
type Blocking struct {
	version uint32
}

// NewBlocking returns a Blocking strategy.
func NewBlocking() *Blocking { return &Blocking{} }

func (b *Blocking) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	if ctx != nil && ctx.Done() != nil {
		// Cancellation wakes parked waiters the same way a signal does.
		stop := context.AfterFunc(ctx, b.SignalAllWhenBlocking)
		defer stop()
	}
	for {
		if v := observe(cursor, dependents); v >= target {
			return v, nil
		}
		ver := atomic.LoadUint32(&b.version)
		if err := ctxErr(ctx); err != nil {
			return observe(cursor, dependents), err
		}
		if v := observe(cursor, dependents); v >= target {
			return v, nil
		}
		_ = parkWait(&b.version, ver, 0)
	}
}

func (b *Blocking) SignalAllWhenBlocking() {
	atomic.AddUint32(&b.version, 1)
	parkWake(&b.version)
}
