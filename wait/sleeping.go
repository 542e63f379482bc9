package wait

import (
	"context"
	"time"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// DefaultSleepQuantum is the fixed sleep interval used by Sleeping between
// checks. Short enough to keep latency reasonable for general-purpose use,
// long enough to keep CPU usage low relative to BusySpin/Yielding.
const DefaultSleepQuantum = 50 * time.Microsecond

// Sleeping sleeps for a small fixed quantum between checks. This is the
// default wait strategy for general use: a reasonable latency/CPU tradeoff
// with no platform-specific requirements.
type Sleeping struct {
	quantum time.Duration
}

// NewSleeping returns a Sleeping strategy with DefaultSleepQuantum.
func NewSleeping() *Sleeping { return &Sleeping{quantum: DefaultSleepQuantum} }

// NewSleepingWithQuantum returns a Sleeping strategy with a custom quantum.
func NewSleepingWithQuantum(quantum time.Duration) *Sleeping {
	if quantum <= 0 {
		quantum = DefaultSleepQuantum
	}
	return &Sleeping{quantum: quantum}
}

func (s *Sleeping) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	for {
		if v := observe(cursor, dependents); v >= target {
			return v, nil
		}
		if err := ctxErr(ctx); err != nil {
			return observe(cursor, dependents), err
		}
		time.Sleep(s.quantum)
	}
}

func (*Sleeping) SignalAllWhenBlocking() {}
