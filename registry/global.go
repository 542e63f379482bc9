package registry

import "sync"

// global lazily builds the process-wide default registry exactly once, the
// Go analogue of default_signal_registry::get_shared_instance's Meyers
// singleton (a function-local static std::shared_ptr).
var global = sync.OnceValue(func() Registry {
	return NewDefault()
})

// Global returns the process-wide default Registry. Production code looks
// sinks up through it; tests should construct their own NewDefault instead
// of relying on shared global state.
func Global() Registry {
	return global()
}
