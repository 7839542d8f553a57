// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams rendered frames to the sound card as 16-bit PCM with a frame-counting clock
package output

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single device context per process. Every Oto output shares
// it and owns a separate player, clock and lifecycle.
var (
	deviceMu       sync.Mutex
	device         *oto.Context
	deviceReady    chan struct{}
	deviceRate     int
	deviceChannels int
)

func sharedDevice(sampleRate, channels int) (*oto.Context, chan struct{}, error) {
	deviceMu.Lock()
	defer deviceMu.Unlock()

	if device != nil {
		if deviceRate != sampleRate || deviceChannels != channels {
			return nil, nil, fmt.Errorf("audio device already opened at %dHz %dch, cannot open %dHz %dch",
				deviceRate, deviceChannels, sampleRate, channels)
		}
		return device, deviceReady, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	device = ctx
	deviceReady = ready
	deviceRate = sampleRate
	deviceChannels = channels

	log.Printf("Audio device initialized: %dHz, %d channels", sampleRate, channels)

	return device, deviceReady, nil
}

// Oto output implementation using oto library
type Oto struct {
	mu         sync.Mutex
	device     *oto.Context
	ready      chan struct{}
	player     *oto.Player
	sampleRate int
	channels   int
	state      State

	// read by the device goroutine without taking mu
	renderer atomic.Pointer[rendererRef]
	frames   atomic.Int64

	clockMu  sync.Mutex
	lastTime float64
}

type rendererRef struct {
	r Renderer
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{state: StateSuspended}
}

// Open attaches to the shared audio device. The device may still be
// starting up; Resume waits for it.
func (o *Oto) Open(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return errors.New("output closed")
	}
	if o.device != nil {
		return nil
	}

	dev, ready, err := sharedDevice(sampleRate, channels)
	if err != nil {
		return err
	}

	o.device = dev
	o.ready = ready
	o.sampleRate = sampleRate
	o.channels = channels
	return nil
}

// SetRenderer replaces the frame source
func (o *Oto) SetRenderer(r Renderer) {
	o.renderer.Store(&rendererRef{r: r})
}

// Resume waits for the device and starts the player
func (o *Oto) Resume(ctx context.Context) error {
	o.mu.Lock()
	if o.state == StateClosed {
		o.mu.Unlock()
		return errors.New("output closed")
	}
	if o.device == nil {
		o.mu.Unlock()
		return errors.New("output not opened")
	}
	ready := o.ready
	o.mu.Unlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return fmt.Errorf("waiting for audio device: %w", ctx.Err())
	}

	o.mu.Lock()
	if o.state == StateClosed {
		o.mu.Unlock()
		return errors.New("output closed")
	}
	if err := o.device.Err(); err != nil {
		o.mu.Unlock()
		return fmt.Errorf("audio device error: %w", err)
	}
	if o.player == nil {
		o.player = o.device.NewPlayer(&otoReader{o: o, channels: o.channels})
	}
	player := o.player
	o.state = StateRunning
	o.mu.Unlock()

	// Play may read from the renderer before returning
	player.Play()
	return nil
}

// Suspend pauses the player
func (o *Oto) Suspend() error {
	o.mu.Lock()
	if o.state != StateRunning {
		o.mu.Unlock()
		return nil
	}
	player := o.player
	o.state = StateSuspended
	o.mu.Unlock()

	player.Pause()
	return nil
}

// CurrentTime returns seconds of audio played, excluding frames still queued in the player
func (o *Oto) CurrentTime() float64 {
	o.mu.Lock()
	player := o.player
	rate := o.sampleRate
	channels := o.channels
	o.mu.Unlock()

	if rate == 0 {
		return 0
	}

	played := o.frames.Load()
	if player != nil {
		played -= int64(player.BufferedSize() / (2 * channels))
	}

	o.clockMu.Lock()
	defer o.clockMu.Unlock()

	t := float64(played) / float64(rate)
	if t < o.lastTime {
		t = o.lastTime
	}
	o.lastTime = t
	return t
}

// State returns the lifecycle state
func (o *Oto) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SampleRate returns the opened sample rate
func (o *Oto) SampleRate() int {
	return o.sampleRate
}

// Channels returns the opened channel count
func (o *Oto) Channels() int {
	return o.channels
}

// Close stops this output's player. The shared device stays open for other outputs.
func (o *Oto) Close() error {
	o.mu.Lock()
	player := o.player
	o.player = nil
	o.state = StateClosed
	o.renderer.Store(nil)
	o.mu.Unlock()

	if player != nil {
		player.Pause()
		if err := player.Close(); err != nil {
			return fmt.Errorf("failed to close player: %w", err)
		}
	}
	return nil
}

// otoReader feeds the oto player from the renderer
type otoReader struct {
	o        *Oto
	channels int
	scratch  []float32
}

// Read renders whole frames into p as signed 16-bit little-endian samples
func (r *otoReader) Read(p []byte) (int, error) {
	channels := r.channels
	frames := len(p) / (2 * channels)
	if frames == 0 {
		return 0, nil
	}

	n := frames * channels
	if cap(r.scratch) < n {
		r.scratch = make([]float32, n)
	}
	buf := r.scratch[:n]

	if ref := r.o.renderer.Load(); ref != nil && ref.r != nil {
		ref.r.Render(buf)
	} else {
		silence(buf)
	}

	for i, s := range buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(audio.FloatToInt16(s)))
	}

	r.o.frames.Add(int64(frames))
	return n * 2, nil
}
