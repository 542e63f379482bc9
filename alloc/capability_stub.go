//go:build !linux || !(amd64 || arm64)

package alloc

// HasPosixMmapInterface reports whether DoubleMapped is backed by a real
// mmap/munmap implementation on this platform.
func HasPosixMmapInterface() bool { return false }
