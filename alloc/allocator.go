// Package alloc provides the pluggable backing-memory strategies a ring
// buffer can use: a double-mapped virtual-memory allocator, where any linear
// span of at most size bytes is valid even across the wrap point, and a
// portable heap fallback that requires an explicit mirror copy on publish.
package alloc

import "errors"

// ErrNotSupported is returned by DoubleMapped on platforms lacking a POSIX
// mmap/munmap interface (anything other than linux/amd64 or linux/arm64).
var ErrNotSupported = errors.New("alloc: double-mapped allocator not supported on this platform")

// Allocator is the contract a ring buffer's backing-memory strategy must
// satisfy.
type Allocator interface {
	// Allocate returns at least 2*size bytes of backing storage: a primary
	// region followed by its mirror, split at len(data)/2. mirrored
	// reports whether the returned region already aliases a second copy
	// across the wrap point (true for DoubleMapped, false for Heap, in
	// which case the writer must perform the mirror copy itself).
	Allocate(size int64) (data []byte, mirrored bool, err error)

	// Release returns backing storage obtained from Allocate.
	Release(data []byte) error
}
