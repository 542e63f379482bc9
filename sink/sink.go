// Package sink implements the producer-stage adapter that owns a ring
// buffer, publishes its presence to a signal registry, and lets readers
// attach either by polling or by callback notification. Grounded on
// signal_registry.hpp's data_sink_base interface and
// data_sink_cpu.hpp's callback-driven reader registration.
package sink

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/RalphSteinhagen/gnuradio/registry"
	"github.com/RalphSteinhagen/gnuradio/ringbuffer"
	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/tag"
)

// SignalInfo describes one signal a sink exposes, mirroring signal_info_t.
type SignalInfo struct {
	Name string
	Unit string
	Rate float32
}

// Adapter owns a ring buffer of T and is the unit registered with a
// registry.Registry under Name. It self-registers on construction and
// deregisters on Close.
type Adapter[T any] struct {
	buf  *ringbuffer.Buffer[T]
	tags *tag.Stream

	name string
	unit string
	rate float32
	reg  registry.Registry

	changed *sequence.Sequence

	mu      sync.Mutex
	readers []*ReaderHandle[T]
	closed  bool
}

// NewAdapter constructs an Adapter over buf, registers it with reg under
// name, and returns it. unit and rate are purely descriptive (SignalInfos).
func NewAdapter[T any](reg registry.Registry, name, unit string, rate float32, buf *ringbuffer.Buffer[T]) *Adapter[T] {
	a := &Adapter[T]{
		buf:     buf,
		tags:    tag.NewStream(),
		name:    name,
		unit:    unit,
		rate:    rate,
		reg:     reg,
		changed: sequence.NewWithValue(0),
	}
	reg.Add(a)
	return a
}

// SignalName identifies this adapter in its registry; it also satisfies
// registry.Sink.
func (a *Adapter[T]) SignalName() string { return a.name }

// SignalInfos reports the signals this sink exposes. GNU Radio sinks can
// expose more than one signal per adapter; this Go port carries exactly one,
// matching its single backing Buffer[T].
func (a *Adapter[T]) SignalInfos() []SignalInfo {
	return []SignalInfo{{Name: a.name, Unit: a.unit, Rate: a.rate}}
}

// ElementType reports the sink's element type, the Go analogue of
// data_sink_base::data_type's compile-time type tag.
func (a *Adapter[T]) ElementType() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// Tags returns the tag stream riding alongside this sink's data.
func (a *Adapter[T]) Tags() *tag.Stream { return a.tags }

// Buffer returns the underlying ring buffer, for callers that need direct
// Writer access.
func (a *Adapter[T]) Buffer() *ringbuffer.Buffer[T] { return a.buf }

// HasConfigChanged reports, and advances, whether this sink's configuration
// has changed since lastVersion. Currently only RegisterReader bumps the
// version; closing a reader does not.
func (a *Adapter[T]) HasConfigChanged(lastVersion *int64) bool {
	current := a.changed.Value()
	if current == *lastVersion {
		return false
	}
	*lastVersion = current
	return true
}

// Callback is invoked whenever a registered reader's available data crosses
// its [minNotify, maxNotify] thresholds. It receives the available data
// span, an optional error span (always nil in this port), the
// buffer's total capacity, the tags covering the span, whether the sink's
// configuration changed since the callback's last invocation, and the
// reader handle itself; it returns the number of elements to consume.
type Callback[T any] func(data []T, errSpans []T, bufferSize int64, tags []tag.Tag, configChanged bool, reader *ReaderHandle[T]) int64

// RegisterReader attaches a new reader to this sink's buffer. minBufferSize
// is advisory (the buffer's actual capacity is fixed at construction). When
// callback is non-nil, a background goroutine drives it:
// blocking drives the goroutine via the buffer's wait strategy
// (ringbuffer.Reader.WaitAvailable), never busy-sleeping; non-blocking polls
// opportunistically and skips a round when fewer than minNotify elements are
// ready.
func (a *Adapter[T]) RegisterReader(minBufferSize int64, blocking bool, callback Callback[T], minNotify, maxNotify int64) (*ReaderHandle[T], error) {
	if minNotify <= 0 {
		return nil, fmt.Errorf("sink: minNotify must be positive, got %d", minNotify)
	}
	if maxNotify > 0 && maxNotify < minNotify {
		return nil, fmt.Errorf("sink: maxNotify (%d) must be >= minNotify (%d)", maxNotify, minNotify)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, fmt.Errorf("sink: adapter %q is closed", a.name)
	}
	handle := &ReaderHandle[T]{
		reader:    a.buf.NewReaderInstance(),
		adapter:   a,
		blocking:  blocking,
		minNotify: minNotify,
		maxNotify: maxNotify,
		stop:      make(chan struct{}),
	}
	a.readers = append(a.readers, handle)
	a.mu.Unlock()

	a.changed.IncrementAndGet()

	if callback != nil {
		handle.wg.Add(1)
		go handle.pollLoop(callback)
	}
	return handle, nil
}

// Close deregisters every attached reader and removes the adapter from its
// registry. Close is idempotent.
func (a *Adapter[T]) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	readers := a.readers
	a.readers = nil
	a.mu.Unlock()

	for _, r := range readers {
		r.Close()
	}
	a.reg.Remove(a)
}
