// Package registry implements the process-wide directory of live sink
// adapters that readers look signals up by name through, grounded on
// default_signal_registry.hpp's mutex-serialized vector-of-references
// design.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

// ErrNotFound is returned by Find when no sink matches the requested name.
var ErrNotFound = errors.New("registry: signal not found")

// Sink is the minimal identity a registry needs from a sink adapter: a
// stable name to look it up by. package sink's Adapter[T] satisfies this.
type Sink interface {
	SignalName() string
}

// Registry is a process-wide (or scoped, for tests) directory of live sinks.
type Registry interface {
	// Add inserts sink and returns the new change version.
	Add(sink Sink) int64

	// Remove removes the first entry matching sink by identity and returns
	// the new change version. Removing an absent sink is a no-op that still
	// bumps the version, matching default_signal_registry.hpp's unconditional
	// increment.
	Remove(sink Sink) int64

	// Find returns the first sink whose SignalName matches name, or
	// ErrNotFound.
	Find(name string) (Sink, error)

	// Size reports the number of registered sinks.
	Size() int

	// HasChanged implements the test-and-update pattern: it reports whether
	// the registry has mutated since lastVersion was observed, and advances
	// lastVersion to the registry's current version.
	HasChanged(lastVersion *int64) bool
}

// Default is a mutex-serialized Registry, the Go analogue of
// default_signal_registry's std::mutex-guarded std::vector.
type Default struct {
	mu      sync.Mutex
	sinks   []Sink
	version *sequence.Sequence
}

// NewDefault returns an empty Default registry.
func NewDefault() *Default {
	return &Default{version: sequence.NewWithValue(0)}
}

var _ Registry = (*Default)(nil)

func (d *Default) Add(sink Sink) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
	return d.version.IncrementAndGet()
}

func (d *Default) Remove(sink Sink) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.sinks {
		if s == sink {
			d.sinks = append(d.sinks[:i], d.sinks[i+1:]...)
			break
		}
	}
	return d.version.IncrementAndGet()
}

func (d *Default) Find(name string) (Sink, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sinks {
		if s.SignalName() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (d *Default) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sinks)
}

func (d *Default) HasChanged(lastVersion *int64) bool {
	current := d.version.Value()
	if current == *lastVersion {
		return false
	}
	*lastVersion = current
	return true
}
