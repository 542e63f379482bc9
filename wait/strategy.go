// Package wait implements the pluggable consumer wait strategies a ring
// buffer reader uses to block until a target sequence becomes visible. Every
// variant trades latency for CPU differently; all share the same contract.
package wait

import (
	"context"
	"errors"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// ErrTimeout is returned by TimeoutBlocking when the configured wait timeout
// elapses before target is reached. The caller is expected to re-check its
// own condition (e.g. a shutdown flag) and either retry or surface the
// timeout further up the stack.
var ErrTimeout = errors.New("wait: timed out before target sequence was visible")

// Strategy is the contract every wait strategy must satisfy.
type Strategy interface {
	// WaitFor blocks (per the strategy's policy) until cursor (or, when
	// dependents is non-empty, the minimum across dependents) reaches at
	// least target, ctx is canceled, or (for strategies that support it) a
	// timeout elapses. It returns the observed sequence value, which may be
	// less than target only when err is non-nil, or under NoWait, which
	// returns the current value without waiting.
	WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error)

	// SignalAllWhenBlocking wakes every waiter currently parked inside
	// WaitFor. Called by a producer after publish. Strategies that never
	// block (NoWait, BusySpin, SpinWait, Yielding) implement it as a no-op.
	SignalAllWhenBlocking()
}

// observe returns the current visible sequence: cursor's value when there are
// no dependents, otherwise the minimum across dependents (a consumer waiting
// behind other consumers in a processing chain never outruns them). When
// dependents is non-empty, cursor is never dereferenced — claim strategies
// rely on this to wait on a set of reader sequences without owning a cursor
// of their own.
func observe(cursor *sequence.Sequence, dependents []*sequence.Sequence) int64 {
	if len(dependents) == 0 {
		return cursor.Value()
	}
	return sequence.Min(dependents, 0)
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
