//go:build !linux || !(amd64 || arm64)

package alloc

// DoubleMapped is unavailable on this platform; every method reports
// ErrNotSupported so callers can fall back to Heap.
type DoubleMapped struct{}

// NewDoubleMapped always fails on this platform.
func NewDoubleMapped() (*DoubleMapped, error) { return nil, ErrNotSupported }

func (*DoubleMapped) Allocate(int64) ([]byte, bool, error) { return nil, false, ErrNotSupported }

func (*DoubleMapped) Release([]byte) error { return ErrNotSupported }
