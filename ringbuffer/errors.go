package ringbuffer

import "errors"

// ErrTranslatorFailed wraps a translator error under AbortOnFailure; see
// FailurePolicy.
var ErrTranslatorFailed = errors.New("ringbuffer: translator failed")

// ErrSizeMismatch is returned by Reinterpret when the requested element type
// does not have the same size and alignment as the buffer's native type.
var ErrSizeMismatch = errors.New("ringbuffer: element type size/alignment mismatch")
