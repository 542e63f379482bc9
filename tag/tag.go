// Package tag provides an offset-indexed annotation stream that rides
// alongside a ring buffer's data. Tags are dropped only by an explicit Prune
// call; neither package ringbuffer nor package sink prunes a stream as
// readers advance. It supplements the contracts in package ringbuffer with
// the tag bookkeeping GNU Radio's data_sink_cpu.hpp pairs with sample spans.
package tag

import (
	"sort"
	"sync"
)

// Tag annotates a single sequence offset in a buffer with an arbitrary
// key/value pair (sample rate changes, stream markers, error annotations).
type Tag struct {
	Offset int64
	Key    string
	Value  any
}

// Stream is a mutex-guarded, offset-sorted collection of Tags. It has no
// capacity limit: it grows with every Add until Prune removes old tags.
type Stream struct {
	mu   sync.Mutex
	tags []Tag
}

// NewStream returns an empty tag stream.
func NewStream() *Stream { return &Stream{} }

// Add records a tag at the given offset. Tags are kept in offset order by a
// binary search for the insertion point; a tag whose offset equals existing
// ones is placed after them.
func (s *Stream) Add(t Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.tags), func(i int) bool { return s.tags[i].Offset > t.Offset })
	s.tags = append(s.tags, Tag{})
	copy(s.tags[i+1:], s.tags[i:])
	s.tags[i] = t
}

// Range returns a copy of every tag whose offset falls within [lo, hi]
// inclusive.
func (s *Stream) Range(lo, hi int64) []Tag {
	if hi < lo {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := sort.Search(len(s.tags), func(i int) bool { return s.tags[i].Offset >= lo })
	end := sort.Search(len(s.tags), func(i int) bool { return s.tags[i].Offset > hi })
	if start >= end {
		return nil
	}
	out := make([]Tag, end-start)
	copy(out, s.tags[start:end])
	return out
}

// Prune drops every tag at an offset strictly before minOffset — the minimum
// sequence value across a buffer's readers — since no reader can observe it
// again.
func (s *Stream) Prune(minOffset int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cut := sort.Search(len(s.tags), func(i int) bool { return s.tags[i].Offset >= minOffset })
	if cut == 0 {
		return
	}
	remaining := make([]Tag, len(s.tags)-cut)
	copy(remaining, s.tags[cut:])
	s.tags = remaining
}

// Len reports the number of tags currently retained.
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tags)
}
