// Package claim implements the producer-side algorithms that reserve
// contiguous ring-buffer slots without overrunning the slowest reader.
// SingleProducer is a plain monotonic store; MultiProducer arbitrates
// between concurrent producers with a CAS loop and a per-slot availability
// map, since publication order across producers is not necessarily claim
// order.
package claim

import (
	"context"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// Strategy is the contract a producer uses to reserve and publish slots.
type Strategy interface {
	// Next blocks (via the configured wait strategy) until n contiguous
	// slots are free relative to readers, then returns the sequence at
	// which the last of the claimed slots will sit.
	Next(ctx context.Context, readers []*sequence.Sequence, n int64) (int64, error)

	// TryNext behaves like Next but never blocks: it fails with
	// ErrNoCapacity instead of waiting.
	TryNext(readers []*sequence.Sequence, n int64) (int64, error)

	// RemainingCapacity reports size - (claimed - min(readers)), where
	// claimed is the highest claimed sequence (the published cursor itself
	// for SingleProducer).
	RemainingCapacity(readers []*sequence.Sequence) int64

	// Publish marks the n slots ending at seq (i.e. seq-n+1..seq) visible
	// to readers and wakes any blocked waiters.
	Publish(seq int64, n int64)
}
