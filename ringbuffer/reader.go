package ringbuffer

import (
	"context"
	"errors"

	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/tag"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

// Reader consumes elements published to a Buffer. Constructing one (via
// Buffer.NewReaderInstance) inserts its sequence into the buffer's reader
// set at the buffer's current cursor; Close removes it again.
type Reader[T any] struct {
	buf      *Buffer[T]
	sequence *sequence.Sequence
	cached   int64
}

// Available reports how many published elements remain unconsumed.
func (r *Reader[T]) Available() int64 {
	return r.buf.shared.cursor.Value() - r.cached
}

// Get returns a contiguous view of up to n unconsumed published elements
// (or all available ones, if n is zero), without consuming them. n is
// clamped to Available(); requesting more than is available is not an
// error.
func (r *Reader[T]) Get(n int64) []T {
	avail := r.Available()
	if n == 0 || n > avail {
		n = avail
	}
	if n <= 0 {
		return nil
	}

	size := r.buf.shared.size
	start := ((r.cached+1)%size + size) % size
	data := r.buf.slice()
	return data[start : start+n]
}

// GetWithTags behaves like Get, additionally returning every tag in stream
// whose offset falls within the returned window.
func (r *Reader[T]) GetWithTags(n int64, stream *tag.Stream) ([]T, []tag.Tag) {
	lo := r.cached + 1
	span := r.Get(n)
	if len(span) == 0 {
		return span, nil
	}
	if stream == nil {
		return span, nil
	}
	hi := lo + int64(len(span)) - 1
	return span, stream.Range(lo, hi)
}

// Consume advances past n elements. It returns false without side effect
// when n exceeds Available(); otherwise it advances the reader's sequence
// (release ordering, waking any producer blocked on capacity) and returns
// true.
func (r *Reader[T]) Consume(n int64) bool {
	if n > r.Available() {
		return false
	}
	r.cached += n
	r.sequence.AddAndGet(n)
	r.buf.shared.wait.SignalAllWhenBlocking()
	return true
}

// At returns the i-th element of the currently available window,
// zero-indexed, without consuming it.
func (r *Reader[T]) At(i int64) T {
	size := r.buf.shared.size
	idx := ((r.cached+1+i)%size + size) % size
	return r.buf.slice()[idx]
}

// WaitAvailable blocks, via the buffer's configured wait strategy, until at
// least min elements are available or ctx is done. It returns the observed
// availability even on a wait.ErrTimeout, so pollers such as package sink's
// notification loop never have to busy-sleep between checks.
func (r *Reader[T]) WaitAvailable(ctx context.Context, min int64) (int64, error) {
	if r.Available() >= min {
		return r.Available(), nil
	}
	target := r.cached + min
	if _, err := r.buf.shared.wait.WaitFor(ctx, target, r.buf.shared.cursor, nil); err != nil {
		if !errors.Is(err, wait.ErrTimeout) {
			return r.Available(), err
		}
	}
	return r.Available(), nil
}

// Close removes this reader's sequence from the buffer's reader set. Callers
// must call Close once they are done; an unclosed reader permanently pins
// the buffer's capacity at whatever point it stopped consuming.
func (r *Reader[T]) Close() {
	sequence.Remove(r.buf.shared.readers, r.sequence)
}
