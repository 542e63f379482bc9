package ringbuffer

import (
	"context"
	"errors"
	"fmt"

	"github.com/RalphSteinhagen/gnuradio/claim"
)

// Translator fills span with up to len(span) elements to be published. Its
// error, if any, is handled according to the buffer's FailurePolicy.
type Translator[T any] func(span []T) error

// Writer publishes elements into a Buffer. A SingleProducer buffer must
// never have more than one live Writer at a time; a MultiProducer buffer
// (see WithMultiProducer) allows any number of concurrent Writers sharing
// the same underlying claim strategy.
type Writer[T any] struct {
	buf *Buffer[T]
}

// Publish blocks (via the buffer's wait strategy) until n slots are free,
// invokes translator over the claimed span, and publishes it. If n is zero
// or the buffer currently has no readers, it returns immediately without
// calling translator.
func (w *Writer[T]) Publish(ctx context.Context, translator Translator[T], n int64) error {
	shared := w.buf.shared
	readers := shared.readers.Slice()
	if n == 0 || len(readers) == 0 {
		return nil
	}

	seq, err := shared.claim.Next(ctx, readers, n)
	if err != nil {
		return err
	}
	return w.translateAndPublish(translator, seq, n)
}

// TryPublish behaves like Publish but never blocks: it returns (false, nil)
// when fewer than n slots are currently free.
func (w *Writer[T]) TryPublish(translator Translator[T], n int64) (bool, error) {
	shared := w.buf.shared
	readers := shared.readers.Slice()
	if n == 0 || len(readers) == 0 {
		return true, nil
	}

	seq, err := shared.claim.TryNext(readers, n)
	if err != nil {
		if errors.Is(err, claim.ErrNoCapacity) {
			return false, nil
		}
		return false, err
	}
	if err := w.translateAndPublish(translator, seq, n); err != nil {
		return false, err
	}
	return true, nil
}

// Available reports the number of slots currently free to claim.
func (w *Writer[T]) Available() int64 {
	shared := w.buf.shared
	return shared.claim.RemainingCapacity(shared.readers.Slice())
}

// translateAndPublish computes the claimed span, invokes translator over it,
// mirrors the write if the allocator does not already alias it, and
// publishes — matching buffer_host.hpp's translateAndPublish in shape.
func (w *Writer[T]) translateAndPublish(translator Translator[T], seq, n int64) error {
	shared := w.buf.shared
	size := shared.size

	index := ((seq-n+1)%size + size) % size
	data := w.buf.slice()
	span := data[index : index+n]

	if err := translator(span); err != nil {
		if shared.failurePolicy == AbortOnFailure {
			return fmt.Errorf("%w: %w", ErrTranslatorFailed, err)
		}
		// PublishPartial: the error is swallowed and the span published
		// as-is, matching the original's documented (if surprising) policy.
	}

	if !shared.mirrored {
		if index+n <= size {
			copy(data[index+size:index+size+n], span)
		} else {
			// The span crosses the wrap point: its primary part goes to the
			// tail of the mirror, its mirror part to the head of the primary.
			head := size - index
			copy(data[index+size:2*size], span[:head])
			copy(data[:n-head], span[head:])
		}
	}

	shared.claim.Publish(seq, n)
	return nil
}
