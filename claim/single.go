package claim

import (
	"context"

	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

// SingleProducer assumes exactly one goroutine ever calls Next/Publish. The
// cursor doubles as the claim point: there is no separate "claimed ahead of
// published" sequence to track, since nothing else can be claiming
// concurrently.
type SingleProducer struct {
	capacity int64
	cursor   *sequence.Sequence
	wait     wait.Strategy
}

// NewSingleProducer returns a SingleProducer claim strategy over capacity
// slots, sharing cursor with the owning buffer and waitStrategy with its
// readers.
func NewSingleProducer(capacity int64, cursor *sequence.Sequence, waitStrategy wait.Strategy) *SingleProducer {
	return &SingleProducer{capacity: capacity, cursor: cursor, wait: waitStrategy}
}

// Next blocks, re-checking capacity after every wait, until n slots are
// free. A wait strategy that returns without the wrap point actually having
// cleared (wait.NoWait, by design) makes this spin rather than block; NoWait
// is meant for TryNext-style callers with their own scheduling loop, not for
// a buffer's blocking wait strategy.
func (s *SingleProducer) Next(ctx context.Context, readers []*sequence.Sequence, n int64) (int64, error) {
	nextSeq := s.cursor.Value() + n
	wrapPoint := nextSeq - s.capacity
	for wrapPoint > sequence.Min(readers, nextSeq) {
		if _, err := s.wait.WaitFor(ctx, wrapPoint, nil, readers); err != nil {
			return 0, err
		}
	}
	return nextSeq, nil
}

func (s *SingleProducer) TryNext(readers []*sequence.Sequence, n int64) (int64, error) {
	nextSeq := s.cursor.Value() + n
	wrapPoint := nextSeq - s.capacity
	if wrapPoint > sequence.Min(readers, nextSeq) {
		return 0, ErrNoCapacity
	}
	return nextSeq, nil
}

func (s *SingleProducer) RemainingCapacity(readers []*sequence.Sequence) int64 {
	cur := s.cursor.Value()
	return s.capacity - (cur - sequence.Min(readers, cur))
}

func (s *SingleProducer) Publish(seq int64, _ int64) {
	s.cursor.SetValue(seq)
	s.wait.SignalAllWhenBlocking()
}
