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

// Package sequence provides the monotonic cursor primitive shared by every
// producer and consumer of a ring buffer: a cache-line padded atomic counter,
// plus the handful of free functions (Min, Add, Remove) used to compute claim
// headroom over a set of dependent readers.
package sequence

import "sync/atomic"

// Unset is the initial value of a Sequence: no element has been produced yet.
const Unset int64 = -1

// Sequence is a 64-bit monotonic counter, padded on both sides to occupy a
// full cache line so that a hot producer cursor and a hot reader cursor never
// false-share, even when they sit in the same slice or struct.
type Sequence struct {
	_     [7]int64
	value atomic.Int64
	_     [7]int64
}

// New returns a Sequence initialized to Unset.
func New() *Sequence {
	s := &Sequence{}
	s.value.Store(Unset)
	return s
}

// NewWithValue returns a Sequence initialized to v.
func NewWithValue(v int64) *Sequence {
	s := &Sequence{}
	s.value.Store(v)
	return s
}

// Value loads the current value with acquire ordering.
func (s *Sequence) Value() int64 { return s.value.Load() }

// SetValue stores v with release ordering.
func (s *Sequence) SetValue(v int64) { s.value.Store(v) }

// CompareAndSet performs a CAS; it returns whether it succeeded.
func (s *Sequence) CompareAndSet(expected, v int64) bool {
	return s.value.CompareAndSwap(expected, v)
}

// IncrementAndGet adds one and returns the new value.
func (s *Sequence) IncrementAndGet() int64 { return s.value.Add(1) }

// AddAndGet adds n and returns the new value.
func (s *Sequence) AddAndGet(n int64) int64 { return s.value.Add(n) }
