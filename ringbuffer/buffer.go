// Package ringbuffer implements the lock-free circular buffer at the center
// of this module: a fixed-capacity ring of elements shared between one
// writer (or several, under MultiProducer) and any number of readers, backed
// by either double-mapped virtual memory or a heap fallback, with producer
// backpressure and consumer wakeups driven by a pluggable wait strategy.
//
// Grounded on ring.go, generalized from a fixed byte ring into a generic
// element-typed one.
package ringbuffer

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/RalphSteinhagen/gnuradio/alloc"
	"github.com/RalphSteinhagen/gnuradio/claim"
	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

// sharedState is the storage and coordination state shared by a Buffer[T]
// and any Reinterpret view of it, so that Reinterpret never copies data.
type sharedState struct {
	raw      []byte
	size     int64 // element capacity; raw holds at least 2*size*elemSize bytes
	elemSize uintptr
	elemAlig uintptr

	cursor   *sequence.Sequence
	readers  *sequence.Set
	claim    claim.Strategy
	wait     wait.Strategy
	mirrored bool

	allocator     alloc.Allocator
	failurePolicy FailurePolicy
	closed        atomic.Bool
}

// Buffer is a fixed-capacity circular buffer of T. Construct one with New,
// then obtain a Writer and one or more Readers over it.
type Buffer[T any] struct {
	shared *sharedState
}

// New constructs a Buffer with capacity for at least minSize elements of T.
// The default allocator is alloc.NewDoubleMapped where the platform supports
// it and alloc.NewHeap otherwise; the default claim strategy is
// SingleProducer; the default wait strategy is wait.NewSleeping.
func New[T any](minSize int, opts ...Option[T]) (*Buffer[T], error) {
	if minSize <= 0 {
		return nil, fmt.Errorf("ringbuffer: minSize must be positive, got %d", minSize)
	}

	cfg := defaultConfig[T]()
	for _, opt := range opts {
		opt(cfg)
	}

	var zero T
	elemSize := unsafe.Sizeof(zero)
	elemAlig := unsafe.Alignof(zero)
	if elemSize == 0 {
		return nil, fmt.Errorf("ringbuffer: zero-sized element type %T is not supported", zero)
	}

	size := int64(minSize)
	byteSize := size * int64(elemSize)

	allocator := cfg.allocator
	if allocator == nil {
		if alloc.HasPosixMmapInterface() {
			dm, err := alloc.NewDoubleMapped()
			if err != nil {
				return nil, fmt.Errorf("ringbuffer: default allocator: %w", err)
			}
			allocator = dm
		} else {
			allocator = alloc.NewHeap()
		}
	}

	data, mirrored, err := allocator.Allocate(byteSize)
	if err != nil {
		return nil, fmt.Errorf("ringbuffer: allocate backing storage: %w", err)
	}
	if int64(len(data)) < 2*byteSize {
		return nil, fmt.Errorf("ringbuffer: allocator returned %d bytes, want at least %d", len(data), 2*byteSize)
	}

	if mirrored {
		// A mirrored allocator (alloc.DoubleMapped) may have rounded size up
		// to a page multiple internally; the mirror boundary sits at
		// len(data)/2, not at our original unrounded byteSize. Derive the
		// buffer's real element capacity from what was actually allocated,
		// so the mirror alias and the ring's wrap point agree.
		half := int64(len(data)) / 2
		roundedSize := half / int64(elemSize)
		if roundedSize < size {
			return nil, fmt.Errorf("ringbuffer: allocator rounding left capacity %d below requested %d", roundedSize, size)
		}
		size = roundedSize
		byteSize = size * int64(elemSize)
	}
	// data is kept at its full allocated length (not truncated to 2*byteSize):
	// slice() only ever dereferences its base pointer, while Release needs the
	// exact length Allocate returned to unmap the right region.

	cursor := sequence.New()
	readers := sequence.NewSet()

	waitStrategy := cfg.wait
	if waitStrategy == nil {
		waitStrategy = wait.NewSleeping()
	}

	var claimStrategy claim.Strategy
	if cfg.claimFactory != nil {
		claimStrategy = cfg.claimFactory(size, cursor, waitStrategy)
	} else {
		claimStrategy = claim.NewSingleProducer(size, cursor, waitStrategy)
	}

	shared := &sharedState{
		raw:           data,
		size:          size,
		elemSize:      elemSize,
		elemAlig:      elemAlig,
		cursor:        cursor,
		readers:       readers,
		claim:         claimStrategy,
		wait:          waitStrategy,
		mirrored:      mirrored,
		allocator:     allocator,
		failurePolicy: cfg.failurePolicy,
	}
	return &Buffer[T]{shared: shared}, nil
}

// Size reports the buffer's element capacity.
func (b *Buffer[T]) Size() int64 { return b.shared.size }

// Close releases the buffer's backing storage via its allocator. Close is
// idempotent and safe to call from any Buffer[T] sharing this storage
// (including a Reinterpret view); only the first call performs the release.
// Writers and Readers must not be used after Close.
func (b *Buffer[T]) Close() error {
	if !b.shared.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.shared.allocator.Release(b.shared.raw)
}

// slice returns the double-length typed view over the buffer's backing
// storage: indices [0, size) are the primary copy, [size, 2*size) the
// mirror, so any contiguous window of at most size elements starting
// anywhere in the primary copy can be read or written without splitting.
func (b *Buffer[T]) slice() []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&b.shared.raw[0])), 2*b.shared.size)
}

// NewWriterInstance returns a Writer over this buffer. Buffers constructed
// without WithMultiProducer must have exactly one live writer at a time.
func (b *Buffer[T]) NewWriterInstance() *Writer[T] {
	return &Writer[T]{buf: b}
}

// NewReaderInstance returns a Reader over this buffer, joining the reader
// set at the buffer's current cursor: it will only observe data published
// after this call, never the existing backlog.
func (b *Buffer[T]) NewReaderInstance() *Reader[T] {
	seq := sequence.New()
	sequence.Add(b.shared.readers, b.shared.cursor, []*sequence.Sequence{seq})
	cached := seq.Value()
	return &Reader[T]{buf: b, sequence: seq, cached: cached}
}

// Reinterpret returns a view of b's storage as a Buffer[U], sharing the same
// cursor, readers, claim strategy, and wait strategy. It fails unless U has
// the same size and alignment as T.
func Reinterpret[T, U any](b *Buffer[T]) (*Buffer[U], error) {
	var zero U
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)
	if size != b.shared.elemSize || align != b.shared.elemAlig {
		return nil, fmt.Errorf("%w: %T is %d-byte/%d-aligned, want %d-byte/%d-aligned",
			ErrSizeMismatch, zero, size, align, b.shared.elemSize, b.shared.elemAlig)
	}
	return &Buffer[U]{shared: b.shared}, nil
}
