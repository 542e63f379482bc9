package claim

import (
	"context"
	"sync/atomic"

	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

// MultiProducer arbitrates between concurrent producers. Each reserves a
// non-overlapping range via a CAS loop on an internal "claimed" sequence
// (grounded on the Vyukov cell-sequence CAS pattern used by
// core/concurrency/ring.go and lock_free_queue.go in the momentics/hioload-ws
// pack entry), then marks its slots in a per-slot availability array before
// advancing the shared cursor to the highest contiguous published slot.
// Publication order to readers therefore follows claim order, not
// publish-call wall-clock order.
type MultiProducer struct {
	capacity     int64
	cursor       *sequence.Sequence
	claimed      *sequence.Sequence
	wait         wait.Strategy
	availability []atomic.Int32
}

// NewMultiProducer returns a MultiProducer claim strategy over capacity
// slots.
func NewMultiProducer(capacity int64, cursor *sequence.Sequence, waitStrategy wait.Strategy) *MultiProducer {
	availability := make([]atomic.Int32, capacity)
	for i := range availability {
		availability[i].Store(-1)
	}
	return &MultiProducer{
		capacity:     capacity,
		cursor:       cursor,
		claimed:      sequence.New(),
		wait:         waitStrategy,
		availability: availability,
	}
}

func (m *MultiProducer) index(seq int64) int64 { return seq % m.capacity }
func (m *MultiProducer) round(seq int64) int32 { return int32(seq / m.capacity) }

// Next re-checks capacity after every wait before committing a claim via
// CAS, so a wait strategy that returns early (wait.NoWait, by design) makes
// this spin rather than block instead of overrunning unconsumed slots.
func (m *MultiProducer) Next(ctx context.Context, readers []*sequence.Sequence, n int64) (int64, error) {
	for {
		current := m.claimed.Value()
		nextSeq := current + n
		wrapPoint := nextSeq - m.capacity
		if wrapPoint > sequence.Min(readers, nextSeq) {
			if _, err := m.wait.WaitFor(ctx, wrapPoint, nil, readers); err != nil {
				return 0, err
			}
			continue
		}
		if m.claimed.CompareAndSet(current, nextSeq) {
			return nextSeq, nil
		}
	}
}

func (m *MultiProducer) TryNext(readers []*sequence.Sequence, n int64) (int64, error) {
	for {
		current := m.claimed.Value()
		nextSeq := current + n
		wrapPoint := nextSeq - m.capacity
		if wrapPoint > sequence.Min(readers, nextSeq) {
			return 0, ErrNoCapacity
		}
		if m.claimed.CompareAndSet(current, nextSeq) {
			return nextSeq, nil
		}
	}
}

func (m *MultiProducer) RemainingCapacity(readers []*sequence.Sequence) int64 {
	cur := m.claimed.Value()
	return m.capacity - (cur - sequence.Min(readers, cur))
}

func (m *MultiProducer) Publish(seq int64, n int64) {
	lo := seq - n + 1
	for s := lo; s <= seq; s++ {
		m.availability[m.index(s)].Store(m.round(s))
	}
	m.advanceCursor()
	m.wait.SignalAllWhenBlocking()
}

// advanceCursor moves the shared cursor forward to the highest sequence for
// which every slot up to and including it has been marked available,
// stopping at the first gap. Concurrent publishers race via CAS; a losing
// CAS simply means another publisher already advanced at least as far.
func (m *MultiProducer) advanceCursor() {
	for {
		current := m.cursor.Value()
		next := current + 1
		if m.availability[m.index(next)].Load() != m.round(next) {
			return
		}
		highest := next
		for {
			candidate := highest + 1
			if m.availability[m.index(candidate)].Load() != m.round(candidate) {
				break
			}
			highest = candidate
		}
		if m.cursor.CompareAndSet(current, highest) {
			return
		}
	}
}
