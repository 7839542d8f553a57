// ABOUTME: Offline audio output with a manually advanced clock
// ABOUTME: Renders faster than real time for tests and bounces
package output

import (
	"context"
	"errors"
	"math"
	"sync"
)

// renderQuantum is the block size pulled from the renderer
const renderQuantum = 128

// Offline is an Output whose clock only moves when Advance is called
type Offline struct {
	mu         sync.Mutex
	renderer   Renderer
	sampleRate int
	channels   int
	state      State
	frames     int64
	opened     bool
	resumeErr  error
}

// NewOffline creates a new offline output
func NewOffline() *Offline {
	return &Offline{state: StateSuspended}
}

// Open sets the format
func (o *Offline) Open(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return errors.New("output closed")
	}
	if sampleRate <= 0 || channels <= 0 {
		return errors.New("invalid output format")
	}
	o.sampleRate = sampleRate
	o.channels = channels
	o.opened = true
	return nil
}

// SetRenderer replaces the frame source
func (o *Offline) SetRenderer(r Renderer) {
	o.mu.Lock()
	o.renderer = r
	o.mu.Unlock()
}

// FailNextResume makes the next Resume return err
func (o *Offline) FailNextResume(err error) {
	o.mu.Lock()
	o.resumeErr = err
	o.mu.Unlock()
}

// Resume marks the output running
func (o *Offline) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return errors.New("output closed")
	}
	if !o.opened {
		return errors.New("output not opened")
	}
	if err := o.resumeErr; err != nil {
		o.resumeErr = nil
		return err
	}
	o.state = StateRunning
	return nil
}

// Suspend holds the clock still
func (o *Offline) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateRunning {
		o.state = StateSuspended
	}
	return nil
}

// Advance pulls the given number of seconds through the renderer and
// returns the interleaved audio. Nothing happens unless the output is running.
func (o *Offline) Advance(seconds float64) []float32 {
	o.mu.Lock()
	if o.state != StateRunning || seconds <= 0 {
		o.mu.Unlock()
		return nil
	}
	renderer := o.renderer
	channels := o.channels
	frames := int(math.Round(seconds * float64(o.sampleRate)))
	o.mu.Unlock()

	out := make([]float32, frames*channels)
	for start := 0; start < frames; start += renderQuantum {
		end := min(start+renderQuantum, frames)
		block := out[start*channels : end*channels]
		if renderer != nil {
			renderer.Render(block)
		}

		o.mu.Lock()
		o.frames += int64(end - start)
		o.mu.Unlock()
	}

	return out
}

// CurrentTime returns the seconds rendered so far
func (o *Offline) CurrentTime() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sampleRate == 0 {
		return 0
	}
	return float64(o.frames) / float64(o.sampleRate)
}

// State returns the lifecycle state
func (o *Offline) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SampleRate returns the opened sample rate
func (o *Offline) SampleRate() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sampleRate
}

// Channels returns the opened channel count
func (o *Offline) Channels() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.channels
}

// Close stops the output for good
func (o *Offline) Close() error {
	o.mu.Lock()
	o.state = StateClosed
	o.renderer = nil
	o.mu.Unlock()
	return nil
}
