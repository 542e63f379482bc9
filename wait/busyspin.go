package wait

import (
	"context"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// BusySpin is a tight load loop with no yield and no sleep: lowest latency,
// highest CPU usage. Only sensible when a core is dedicated to the waiter.
type BusySpin struct{}

// NewBusySpin returns a BusySpin strategy.
func NewBusySpin() *BusySpin { return &BusySpin{} }

func (*BusySpin) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	for {
		if v := observe(cursor, dependents); v >= target {
			return v, nil
		}
		if err := ctxErr(ctx); err != nil {
			return observe(cursor, dependents), err
		}
	}
}

func (*BusySpin) SignalAllWhenBlocking() {}
