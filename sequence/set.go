package sequence

import (
	"math"
	"sync"
	"sync/atomic"
)

// Set is a non-blocking, shared collection of dependent reader sequences.
// Reads (the hot path, consulted by every claim) never take a lock: they
// dereference an atomic pointer to an immutable slice. Mutations (Add,
// Remove — cold, driven by reader construction/destruction) copy-on-write
// under a mutex so they never race each other.
type Set struct {
	mu  sync.Mutex
	ptr atomic.Pointer[[]*Sequence]
}

// NewSet returns an empty Set.
func NewSet() *Set {
	s := &Set{}
	empty := make([]*Sequence, 0)
	s.ptr.Store(&empty)
	return s
}

// Slice returns the current snapshot. The caller must not mutate it; Set
// never mutates a published slice in place, so holding onto an old snapshot
// across an Add/Remove is always safe, just possibly stale.
func (s *Set) Slice() []*Sequence {
	return *s.ptr.Load()
}

// Len reports the number of sequences currently tracked.
func (s *Set) Len() int {
	return len(s.Slice())
}

// Add atomically grows the set with newSeqs, each initialized to cursor's
// current value so a joining reader does not claim ownership of slots
// published before it existed ("joiner isolation").
func Add(set *Set, cursor *Sequence, newSeqs []*Sequence) {
	if len(newSeqs) == 0 {
		return
	}
	base := cursor.Value()
	for _, seq := range newSeqs {
		seq.SetValue(base)
	}
	set.mu.Lock()
	defer set.mu.Unlock()
	old := *set.ptr.Load()
	next := make([]*Sequence, 0, len(old)+len(newSeqs))
	next = append(next, old...)
	next = append(next, newSeqs...)
	set.ptr.Store(&next)
}

// Remove atomically removes the first sequence matching seq by identity.
func Remove(set *Set, seq *Sequence) {
	set.mu.Lock()
	defer set.mu.Unlock()
	old := *set.ptr.Load()
	idx := -1
	for i, s := range old {
		if s == seq {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	next := make([]*Sequence, 0, len(old)-1)
	next = append(next, old[:idx]...)
	next = append(next, old[idx+1:]...)
	set.ptr.Store(&next)
}

// Min returns the smallest Value() across sequences, or fallback if empty.
// Used by claim strategies to compute the slowest reader's position.
func Min(sequences []*Sequence, fallback int64) int64 {
	if len(sequences) == 0 {
		return fallback
	}
	m := int64(math.MaxInt64)
	for _, s := range sequences {
		if v := s.Value(); v < m {
			m = v
		}
	}
	return m
}
