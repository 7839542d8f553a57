// ABOUTME: Error kinds shared by the renderer, codecs and playback engine
// ABOUTME: Callers match them with errors.Is after wrapping
package audio

import "errors"

var (
	// ErrInvalidInput reports empty, zero-length or out-of-range parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotInitialized reports a playback operation before Initialize
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrDecodeFailure reports malformed or unsupported audio bytes
	ErrDecodeFailure = errors.New("decode failure")

	// ErrDisposed reports any call on a disposed engine
	ErrDisposed = errors.New("engine disposed")
)
