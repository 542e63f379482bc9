package wait

import (
	"context"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// NoWait returns immediately with the current observed value; the caller is
// responsible for retrying. Useful when the caller has its own scheduling
// loop (e.g. a reactor poll) and wants the buffer to never block it.
type NoWait struct{}

// NewNoWait returns a NoWait strategy.
func NewNoWait() *NoWait { return &NoWait{} }

func (*NoWait) WaitFor(ctx context.Context, target int64, cursor *sequence.Sequence, dependents []*sequence.Sequence) (int64, error) {
	return observe(cursor, dependents), ctxErr(ctx)
}

func (*NoWait) SignalAllWhenBlocking() {}
