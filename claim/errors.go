package claim

import "errors"

// ErrNoCapacity is returned by TryNext when fewer than the requested number
// of slots are currently free.
var ErrNoCapacity = errors.New("claim: no capacity available")
