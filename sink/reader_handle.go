package sink

import (
	"context"
	"sync"
	"time"

	"github.com/RalphSteinhagen/gnuradio/ringbuffer"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

// ReaderHandle wraps a ringbuffer.Reader[T] registered against an Adapter,
// optionally driven by a background callback-notification loop.
type ReaderHandle[T any] struct {
	reader  *ringbuffer.Reader[T]
	adapter *Adapter[T]

	blocking  bool
	minNotify int64
	maxNotify int64

	lastConfigVersion int64

	stop chan struct{}
	wg   sync.WaitGroup
}

// Reader returns the underlying buffer reader, for callers driving
// consumption manually instead of through a callback.
func (h *ReaderHandle[T]) Reader() *ringbuffer.Reader[T] { return h.reader }

// Close stops this reader's notification loop, if any, and removes it from
// the buffer's reader set. Close is safe to call more than once.
func (h *ReaderHandle[T]) Close() {
	select {
	case <-h.stop:
		return
	default:
		close(h.stop)
	}
	h.wg.Wait()
	h.reader.Close()
}

// pollLoop drives callback whenever available data crosses
// [minNotify, maxNotify]. When blocking is set it waits on the reader's wait
// strategy between checks instead of spinning; otherwise it takes whatever
// is available right now and, if that is below minNotify, sleeps for
// wait.DefaultSleepQuantum and checks again, until Close stops the loop.
func (h *ReaderHandle[T]) pollLoop(callback Callback[T]) {
	defer h.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-h.stop
		cancel()
	}()
	defer cancel()

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		var avail int64
		if h.blocking {
			var err error
			avail, err = h.reader.WaitAvailable(ctx, h.minNotify)
			if err != nil {
				return
			}
		} else {
			avail = h.reader.Available()
			if avail < h.minNotify {
				// Non-blocking mode never parks on the wait strategy; a
				// short sleep keeps this from becoming a busy-spin.
				time.Sleep(wait.DefaultSleepQuantum)
				continue
			}
		}
		if avail < h.minNotify {
			continue
		}

		n := avail
		if h.maxNotify > 0 && n > h.maxNotify {
			n = h.maxNotify
		}

		span, tags := h.reader.GetWithTags(n, h.adapter.tags)
		changed := h.adapter.HasConfigChanged(&h.lastConfigVersion)
		consumed := callback(span, nil, h.adapter.buf.Size(), tags, changed, h)
		if consumed > 0 {
			h.reader.Consume(consumed)
		}
	}
}
