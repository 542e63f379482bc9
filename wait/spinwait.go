package wait

import (
	"context"
	"runtime"
	"time"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// spinLimit and yieldLimit bound the first two escalation tiers before
// SpinWait falls back to short sleeps; values chosen to keep the spin tier
// sub-microsecond on typical hardware while still backing off quickly under
// sustained contention.
const (
	spinLimit  = 100
	yieldLimit = 1000
)

// SpinWait adaptively escalates: a tight spin for the first spinLimit
// attempts, then a cooperative yield up to yieldLimit, then short sleeps.
// It approximates BusySpin's latency for the common case where the target
// appears quickly, without BusySpin's sustained CPU cost under contention.
type SpinWait struct {
	sleepQuantum time.Duration
}

// NewSpinWait returns a SpinWait strategy with DefaultSleepQuantum as its
// final-tier sleep interval.
func NewSpinWait() *SpinWait { return &SpinWait{sleepQuantum: DefaultSleepQuantum} }

func (s *SpinWait) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	attempts := 0
	for {
		if v := observe(cursor, dependents); v >= target {
			return v, nil
		}
		if err := ctxErr(ctx); err != nil {
			return observe(cursor, dependents), err
		}
		attempts++
		switch {
		case attempts < spinLimit:
			// pure spin
		case attempts < yieldLimit:
			runtime.Gosched()
		default:
			time.Sleep(s.sleepQuantum)
		}
	}
}

func (*SpinWait) SignalAllWhenBlocking() {}
