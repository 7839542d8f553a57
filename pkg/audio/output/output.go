// ABOUTME: Audio output interface definition
// ABOUTME: Pull-model audio contexts that ask a Renderer for frames on their own clock
package output

import "context"

// State is the lifecycle state of an output
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Renderer produces audio on demand. Render must fill buf completely with
// interleaved samples and must not block on the output that calls it.
type Renderer interface {
	Render(buf []float32)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(buf []float32)

// Render calls f
func (f RendererFunc) Render(buf []float32) {
	f(buf)
}

// Output is an audio context: a device clock that pulls frames from a Renderer
type Output interface {
	// Open prepares the output for the given format
	Open(sampleRate, channels int) error

	// SetRenderer replaces the frame source; nil renders silence
	SetRenderer(r Renderer)

	// Resume starts or continues pulling frames, waiting for the device if needed
	Resume(ctx context.Context) error

	// Suspend stops pulling frames; the clock holds still
	Suspend() error

	// CurrentTime returns seconds of audio played since Open
	CurrentTime() float64

	// State returns the lifecycle state
	State() State

	// SampleRate returns the opened sample rate
	SampleRate() int

	// Channels returns the opened channel count
	Channels() int

	// Close releases output resources
	Close() error
}

// silence zeroes buf
func silence(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
