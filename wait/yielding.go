package wait

import (
	"context"
	"runtime"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// Yielding cooperatively yields the OS thread after each failed check,
// trading a little latency for much lower CPU usage than BusySpin.
type Yielding struct{}

// NewYielding returns a Yielding strategy.
func NewYielding() *Yielding { return &Yielding{} }

func (*Yielding) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	for {
		if v := observe(cursor, dependents); v >= target {
			return v, nil
		}
		if err := ctxErr(ctx); err != nil {
			return observe(cursor, dependents), err
		}
		runtime.Gosched()
	}
}

func (*Yielding) SignalAllWhenBlocking() {}
