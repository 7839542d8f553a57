// ABOUTME: Live playback engine with transport controls and per-track mixing
// ABOUTME: Tracks elapsed time across pause, seek and resume against the output clock
package playback

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/output"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/resample"
	"github.com/Resonate-Protocol/chorus-go/pkg/dsp"
	"github.com/Resonate-Protocol/chorus-go/pkg/voice"
)

// Config holds engine configuration
type Config struct {
	// SampleRate of the output context (default: 44100)
	SampleRate int

	// Channels of the output context, 1 or 2 (default: 2)
	Channels int

	// NewOutput creates the engine's audio context (default: oto device)
	NewOutput func(sampleRate, channels int) (output.Output, error)

	// UnmutedGain is the gain every track returns to when a solo session ends (default: 1.0)
	UnmutedGain float64

	// RestoreVolumeOnUnsolo keeps each track's explicit volume when a solo session ends
	RestoreVolumeOnUnsolo bool

	// OnStateChange is called after every transport or control change
	OnStateChange func(Snapshot)
}

// Engine plays one decoded buffer through a per-track graph. All methods
// are safe for concurrent use; calls are serialized.
type Engine struct {
	config Config

	mu        sync.Mutex
	state     State
	out       output.Output
	graph     *graph
	tracks    map[string]*TrackNode
	buffer    *audio.Buffer
	startTime float64
	pauseTime float64
	changed   bool
}

// New creates an engine. No audio context exists until Initialize.
func New(config Config) *Engine {
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	if config.Channels == 0 {
		config.Channels = 2
	}
	if config.NewOutput == nil {
		config.NewOutput = func(int, int) (output.Output, error) {
			return output.NewOto(), nil
		}
	}
	if config.UnmutedGain <= 0 {
		config.UnmutedGain = 1.0
	}

	return &Engine{
		config: config,
		state:  StateUninitialized,
		tracks: make(map[string]*TrackNode),
	}
}

// do runs fn under the engine lock and reports any state change afterwards
func (e *Engine) do(fn func() error) error {
	e.mu.Lock()
	err := fn()
	var snap *Snapshot
	if e.changed && e.config.OnStateChange != nil {
		s := e.snapshotLocked()
		snap = &s
	}
	e.changed = false
	e.mu.Unlock()

	if snap != nil {
		e.config.OnStateChange(*snap)
	}
	return err
}

func (e *Engine) setState(s State) {
	e.state = s
	e.changed = true
}

// ready fails unless the engine is initialized and not disposed
func (e *Engine) ready() error {
	switch e.state {
	case StateDisposed:
		return audio.ErrDisposed
	case StateUninitialized:
		return audio.ErrNotInitialized
	}
	return nil
}

// Initialize creates the audio context and master bus. Later calls are no-ops.
func (e *Engine) Initialize(ctx context.Context) error {
	return e.do(func() error {
		if e.state == StateDisposed {
			return audio.ErrDisposed
		}
		if e.out != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.config.Channels != 1 && e.config.Channels != 2 {
			return fmt.Errorf("%w: unsupported channel count %d", audio.ErrInvalidInput, e.config.Channels)
		}

		out, err := e.config.NewOutput(e.config.SampleRate, e.config.Channels)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		if err := out.Open(e.config.SampleRate, e.config.Channels); err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}

		e.graph = newGraph(e.config.Channels)
		out.SetRenderer(e.graph)
		e.out = out
		e.setState(StateIdle)

		log.Printf("Playback engine initialized: %dHz, %d channels", e.config.SampleRate, e.config.Channels)
		return nil
	})
}

// LoadAudio decodes WAV, FLAC or MP3 bytes and converts them to the engine rate
func (e *Engine) LoadAudio(ctx context.Context, data []byte) (*audio.Buffer, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := decode.Decode(data)
	if err != nil {
		return nil, err
	}
	return resample.Buffer(buf, e.config.SampleRate), nil
}

// LoadAudioURL fetches audio from a data URL, http(s) URL or file path and decodes it
func (e *Engine) LoadAudioURL(ctx context.Context, src string) (*audio.Buffer, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}

	data, err := decode.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return e.LoadAudio(ctx, data)
}

func (e *Engine) checkReady() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready()
}

// SetupTracks stops playback, tears down existing tracks and builds one
// track per enabled voice, all bound to buf
func (e *Engine) SetupTracks(buf *audio.Buffer, voices []voice.Descriptor) error {
	return e.do(func() error {
		if err := e.ready(); err != nil {
			return err
		}

		buf, err := e.prepare(buf)
		if err != nil {
			return err
		}

		enabled := voice.Enabled(voices)
		nodes := make([]*TrackNode, 0, len(enabled))
		byID := make(map[string]*TrackNode, len(enabled))
		for _, v := range enabled {
			if v.ID == "" {
				return fmt.Errorf("%w: voice %q has no id", audio.ErrInvalidInput, v.Name)
			}
			if _, dup := byID[v.ID]; dup {
				return fmt.Errorf("%w: duplicate voice id %s", audio.ErrInvalidInput, v.ID)
			}
			node := newTrackNode(v.ID, v.Name, clampVolume(v.Gain), voice.FilterFrequency(v.VocalRange), e.config.SampleRate)
			nodes = append(nodes, node)
			byID[v.ID] = node
		}

		e.graph.stopAll()
		e.graph.setTracks(nodes)
		e.tracks = byID
		e.buffer = buf
		e.startTime = 0
		e.pauseTime = 0
		e.setState(StateIdle)

		log.Printf("Set up %d tracks (%.2fs buffer)", len(nodes), buf.Duration())
		return nil
	})
}

// prepare validates buf and converts it to the engine rate. A nil buf
// selects the buffer bound by SetupTracks.
func (e *Engine) prepare(buf *audio.Buffer) (*audio.Buffer, error) {
	if buf == nil {
		if e.buffer == nil {
			return nil, fmt.Errorf("%w: no buffer loaded", audio.ErrInvalidInput)
		}
		return e.buffer, nil
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return resample.Buffer(buf, e.config.SampleRate), nil
}

// now reads the output clock
func (e *Engine) now() float64 {
	return e.out.CurrentTime()
}

func (e *Engine) duration() float64 {
	if e.buffer == nil {
		return 0
	}
	return e.buffer.Duration()
}

// Play starts every track from the stored offset. Either all tracks start
// or the call fails with the engine unchanged.
func (e *Engine) Play(ctx context.Context, buf *audio.Buffer) error {
	return e.do(func() error {
		return e.playLocked(ctx, buf)
	})
}

func (e *Engine) playLocked(ctx context.Context, buf *audio.Buffer) error {
	if err := e.ready(); err != nil {
		return err
	}

	buf, err := e.prepare(buf)
	if err != nil {
		return err
	}

	offset := math.Min(math.Max(e.pauseTime, 0), buf.Duration())
	pos := int(math.Round(offset * float64(buf.SampleRate)))

	var sources []*source
	e.graph.update(func(tracks []*TrackNode) {
		sources = make([]*source, len(tracks))
		for i := range tracks {
			sources[i] = &source{buf: buf, pos: pos}
		}
	})

	if e.out.State() != output.StateRunning {
		if err := e.out.Resume(ctx); err != nil {
			return fmt.Errorf("failed to resume output: %w", err)
		}
	}

	e.graph.start(sources)
	e.buffer = buf
	e.pauseTime = offset
	e.startTime = e.now() - offset
	e.setState(StatePlaying)
	return nil
}

// Resume continues from the paused position. It is a no-op while playing.
func (e *Engine) Resume(ctx context.Context, buf *audio.Buffer) error {
	return e.do(func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if e.state == StatePlaying {
			return nil
		}
		return e.playLocked(ctx, buf)
	})
}

// Pause stores the elapsed position and silences every track
func (e *Engine) Pause() error {
	return e.do(func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if e.state != StatePlaying {
			return nil
		}

		e.pauseTime = math.Min(e.now()-e.startTime, e.duration())
		e.graph.stopAll()
		e.setState(StatePaused)
		return nil
	})
}

// Stop silences every track and returns to idle. The stored position is
// kept. Stopping a stopped engine is a no-op.
func (e *Engine) Stop() error {
	return e.do(func() error {
		switch e.state {
		case StateDisposed:
			return audio.ErrDisposed
		case StateUninitialized:
			return nil
		}

		e.graph.stopAll()
		if e.state != StateIdle {
			e.setState(StateIdle)
		}
		return nil
	})
}

// Seek moves the position to t clamped to the buffer duration. Playback
// restarts from the new position if it was running.
func (e *Engine) Seek(ctx context.Context, buf *audio.Buffer, t float64) error {
	return e.do(func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if math.IsNaN(t) {
			return fmt.Errorf("%w: seek time is NaN", audio.ErrInvalidInput)
		}

		buf, err := e.prepare(buf)
		if err != nil {
			return err
		}

		t = math.Min(math.Max(t, 0), buf.Duration())

		if e.state == StatePlaying {
			prev := e.pauseTime
			e.pauseTime = t
			if err := e.playLocked(ctx, buf); err != nil {
				e.pauseTime = prev
				return err
			}
			return nil
		}

		e.buffer = buf
		e.pauseTime = t
		e.changed = true
		return nil
	})
}

// CurrentTime returns the playback position in seconds, never beyond the buffer duration
func (e *Engine) CurrentTime() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return 0, err
	}
	return e.currentTimeLocked(), nil
}

func (e *Engine) currentTimeLocked() float64 {
	if e.state != StatePlaying {
		return e.pauseTime
	}
	return math.Max(0, math.Min(e.now()-e.startTime, e.duration()))
}

// Duration returns the length of the bound buffer in seconds
func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration()
}

// track looks up id and fails with ErrInvalidInput when it is unknown
func (e *Engine) track(id string) (*TrackNode, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	t, ok := e.tracks[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown track %s", audio.ErrInvalidInput, id)
	}
	return t, nil
}

// SetTrackVolume sets a track's explicit volume, clamped to [0, 1]
func (e *Engine) SetTrackVolume(id string, volume float64) error {
	return e.do(func() error {
		t, err := e.track(id)
		if err != nil {
			return err
		}
		if math.IsNaN(volume) {
			return fmt.Errorf("%w: volume is NaN", audio.ErrInvalidInput)
		}

		e.graph.update(func(tracks []*TrackNode) {
			t.level = clampVolume(volume)
			applyGains(tracks)
		})
		e.changed = true
		return nil
	})
}

// SetTrackPan sets a track's stereo position, clamped to [-1, 1]
func (e *Engine) SetTrackPan(id string, pan float64) error {
	return e.do(func() error {
		t, err := e.track(id)
		if err != nil {
			return err
		}
		if math.IsNaN(pan) {
			return fmt.Errorf("%w: pan is NaN", audio.ErrInvalidInput)
		}

		e.graph.update(func([]*TrackNode) {
			t.pan = dsp.ClampPan(pan)
		})
		e.changed = true
		return nil
	})
}

// ToggleMute flips a track's mute flag and returns the new value
func (e *Engine) ToggleMute(id string) (bool, error) {
	var muted bool
	err := e.do(func() error {
		t, err := e.track(id)
		if err != nil {
			return err
		}

		e.graph.update(func(tracks []*TrackNode) {
			t.muted = !t.muted
			muted = t.muted
			applyGains(tracks)
		})
		e.changed = true
		return nil
	})
	return muted, err
}

// ToggleSolo flips a track's solo flag and returns the new value. When the
// last solo is released every track's volume resets to UnmutedGain unless
// RestoreVolumeOnUnsolo is set.
func (e *Engine) ToggleSolo(id string) (bool, error) {
	var soloed bool
	err := e.do(func() error {
		t, err := e.track(id)
		if err != nil {
			return err
		}

		e.graph.update(func(tracks []*TrackNode) {
			t.soloed = !t.soloed
			soloed = t.soloed

			if !soloed && !e.config.RestoreVolumeOnUnsolo && !anySoloed(tracks) {
				for _, other := range tracks {
					other.level = e.config.UnmutedGain
				}
			}
			applyGains(tracks)
		})
		e.changed = true
		return nil
	})
	return soloed, err
}

func anySoloed(tracks []*TrackNode) bool {
	for _, t := range tracks {
		if t.soloed {
			return true
		}
	}
	return false
}

// TrackGain returns the audible gain of a track after mute and solo
func (e *Engine) TrackGain(id string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.track(id)
	if err != nil {
		return 0, err
	}

	var gain float64
	e.graph.update(func([]*TrackNode) {
		gain = t.gain
	})
	return gain, nil
}

// AnalyserData returns a frequency snapshot for a track, or nil if the track does not exist
func (e *Engine) AnalyserData(id string) []uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.track(id)
	if err != nil {
		return nil
	}
	return t.analyser.FrequencyData()
}

// TimeDomainData returns a waveform snapshot for a track, or nil if the track does not exist
func (e *Engine) TimeDomainData(id string) []uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.track(id)
	if err != nil {
		return nil
	}
	return t.analyser.TimeDomainData()
}

// State returns the transport state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// GetState returns a snapshot of transport and track controls
func (e *Engine) GetState() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    e.state.String(),
		Duration: e.duration(),
		Tracks:   []TrackState{},
	}
	if e.state == StateUninitialized || e.state == StateDisposed {
		return snap
	}

	snap.CurrentTime = e.currentTimeLocked()
	e.graph.update(func(tracks []*TrackNode) {
		for _, t := range tracks {
			snap.Tracks = append(snap.Tracks, TrackState{
				ID:              t.ID,
				Name:            t.Name,
				Volume:          t.level,
				Gain:            t.gain,
				Pan:             t.pan,
				Muted:           t.muted,
				Soloed:          t.soloed,
				FilterFrequency: t.FilterFrequency,
			})
		}
	})
	for i := range snap.Tracks {
		snap.Tracks[i].Level = e.tracks[snap.Tracks[i].ID].analyser.Level()
	}
	return snap
}

// Dispose stops playback, drops every track and closes the audio context.
// Every later call fails with ErrDisposed; disposing twice is a no-op.
func (e *Engine) Dispose() error {
	return e.do(func() error {
		if e.state == StateDisposed {
			return nil
		}

		var closeErr error
		if e.out != nil {
			e.graph.stopAll()
			e.graph.setTracks(nil)
			e.out.SetRenderer(nil)
			if err := e.out.Close(); err != nil {
				closeErr = fmt.Errorf("failed to close output: %w", err)
			}
		}

		e.out = nil
		e.graph = nil
		e.tracks = make(map[string]*TrackNode)
		e.buffer = nil
		e.setState(StateDisposed)
		return closeErr
	})
}

func clampVolume(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
