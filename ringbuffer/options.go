package ringbuffer

import (
	"github.com/RalphSteinhagen/gnuradio/alloc"
	"github.com/RalphSteinhagen/gnuradio/claim"
	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

// FailurePolicy controls what Writer.Publish/TryPublish does when a
// translator returns an error.
type FailurePolicy int

const (
	// PublishPartial swallows the translator's error and publishes the span
	// anyway. This is the original GNU Radio behavior and the default here.
	PublishPartial FailurePolicy = iota

	// AbortOnFailure releases the claim without publishing and returns the
	// translator's error wrapped in ErrTranslatorFailed. Under MultiProducer
	// this can stall the ring: an unpublished slot blocks the shared cursor
	// from ever advancing past it, which is exactly why PublishPartial is
	// the documented default rather than this one.
	AbortOnFailure
)

type claimFactory func(capacity int64, cursor *sequence.Sequence, w wait.Strategy) claim.Strategy

type config[T any] struct {
	allocator     alloc.Allocator
	wait          wait.Strategy
	claimFactory  claimFactory
	failurePolicy FailurePolicy
}

func defaultConfig[T any]() *config[T] {
	return &config[T]{failurePolicy: PublishPartial}
}

// Option configures a Buffer[T] at construction time (grounded on
// five-vee-go-disruptor's functional-option shape).
type Option[T any] func(*config[T])

// WithAllocator overrides the default allocator selection (DoubleMapped where
// available, Heap otherwise).
func WithAllocator[T any](a alloc.Allocator) Option[T] {
	return func(c *config[T]) { c.allocator = a }
}

// WithWaitStrategy overrides the default wait strategy (Sleeping).
func WithWaitStrategy[T any](w wait.Strategy) Option[T] {
	return func(c *config[T]) { c.wait = w }
}

// WithMultiProducer selects the MultiProducer claim strategy instead of the
// default SingleProducer.
func WithMultiProducer[T any]() Option[T] {
	return func(c *config[T]) {
		c.claimFactory = func(capacity int64, cursor *sequence.Sequence, w wait.Strategy) claim.Strategy {
			return claim.NewMultiProducer(capacity, cursor, w)
		}
	}
}

// WithFailurePolicy overrides the default translator-failure policy
// (PublishPartial).
func WithFailurePolicy[T any](p FailurePolicy) Option[T] {
	return func(c *config[T]) { c.failurePolicy = p }
}
