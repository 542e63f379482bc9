//go:build linux && (amd64 || arm64)

/*
 *
 * Copyright 2025 gnuradio-go authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package alloc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"unsafe"
)

var backingFileCounter atomic.Int64

// DoubleMapped allocates size bytes twice over, mapped adjacently so that the
// second half is a byte-for-byte alias of the first. A write of up to size
// bytes starting anywhere in the first half therefore always looks linear to
// a reader, even when it straddles the wrap point; nothing needs to split a
// write or read into two calls. This mirrors GNU Radio's
// double_mapped_memory_resource allocator.
type DoubleMapped struct{}

// NewDoubleMapped returns a DoubleMapped allocator. It always succeeds on
// this platform; the error return exists to keep the constructor's signature
// identical across build tags.
func NewDoubleMapped() (*DoubleMapped, error) { return &DoubleMapped{}, nil }

// Allocate rounds size up to a page multiple and maps a POSIX
// shared-memory-backed file of that size twice in a row: first at a
// kernel-chosen base address, then a second time with MAP_FIXED directly
// after it, aliasing the same file offset range. The backing file is
// unlinked immediately after creation; the open descriptor keeps the inode
// alive until both mappings exist, and is then closed.
func (*DoubleMapped) Allocate(size int64) ([]byte, bool, error) {
	if size <= 0 {
		return nil, false, fmt.Errorf("alloc: size must be positive, got %d", size)
	}

	pageSize := int64(os.Getpagesize())
	if rem := size % pageSize; rem != 0 {
		size += pageSize - rem
	}

	path := backingFilePath()
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, false, fmt.Errorf("alloc: create backing file %s: %w", path, err)
	}
	// Unlink right away: the open fd keeps the inode alive until the
	// mappings below hold it, and nothing needs to find this file by name
	// again.
	os.Remove(path)

	if err := file.Truncate(size); err != nil {
		file.Close()
		return nil, false, fmt.Errorf("alloc: resize backing file: %w", err)
	}
	fd := int(file.Fd())

	base, err := mmapAt(0, 2*size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED, fd, 0)
	if err != nil {
		file.Close()
		return nil, false, fmt.Errorf("alloc: mmap first pass: %w", err)
	}

	if err := munmapAt(base+uintptr(size), int(size)); err != nil {
		munmapAt(base, int(2*size))
		file.Close()
		return nil, false, fmt.Errorf("alloc: punch hole for second mapping: %w", err)
	}

	if _, err := mmapAt(base+uintptr(size), size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_FIXED, fd, 0); err != nil {
		munmapAt(base, int(size))
		file.Close()
		return nil, false, fmt.Errorf("alloc: mmap mirrored half: %w", err)
	}

	// The fd has no further use: both mappings already hold a reference to
	// the underlying inode.
	file.Close()

	return unsafe.Slice((*byte)(unsafe.Pointer(base)), 2*size), true, nil
}

// Release unmaps a region returned by Allocate.
func (*DoubleMapped) Release(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	if err := munmapAt(addr, len(data)); err != nil {
		return fmt.Errorf("alloc: munmap: %w", err)
	}
	return nil
}

// mmapAt issues the raw mmap(2) syscall directly rather than syscall.Mmap,
// since the standard wrapper always requests addr=0 and cannot express the
// MAP_FIXED placement the second mapping needs.
func mmapAt(addr uintptr, length int64, prot, flags, fd int, offset int64) (uintptr, error) {
	ret, _, errno := syscall.Syscall6(syscall.SYS_MMAP, addr, uintptr(length), uintptr(prot), uintptr(flags), uintptr(fd), uintptr(offset))
	if errno != 0 {
		return 0, errno
	}
	return ret, nil
}

// munmapAt issues the raw munmap(2) syscall directly, mirroring mmapAt: the
// regions involved were never registered with the standard library's mmap
// bookkeeping, so syscall.Munmap cannot be used to tear them down.
func munmapAt(addr uintptr, length int) error {
	_, _, errno := syscall.Syscall(syscall.SYS_MUNMAP, addr, uintptr(length), 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func backingFilePath() string {
	name := "gnuradio_ring_" + strconv.Itoa(os.Getpid()) + "_" + strconv.FormatInt(backingFileCounter.Add(1), 36)
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", name)
	}
	return filepath.Join(os.TempDir(), name)
}
