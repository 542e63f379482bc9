package alloc

import "fmt"

// Heap allocates backing storage as a plain Go byte slice of 2*size bytes.
// It never aliases the two halves, so Allocate reports mirrored=false: a
// writer using Heap must copy any bytes that straddle the wrap point into
// both halves itself.
type Heap struct{}

// NewHeap returns a Heap allocator. It is available on every platform.
func NewHeap() *Heap { return &Heap{} }

func (*Heap) Allocate(size int64) ([]byte, bool, error) {
	if size <= 0 {
		return nil, false, fmt.Errorf("alloc: size must be positive, got %d", size)
	}
	return make([]byte, 2*size), false, nil
}

// Release is a no-op: the backing array is garbage collected once
// unreferenced.
func (*Heap) Release([]byte) error { return nil }
