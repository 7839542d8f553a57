// ABOUTME: Session orchestration shared by the commands
// ABOUTME: Renders a mix, encodes it, decodes it into an engine and binds tracks
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/output"
	"github.com/Resonate-Protocol/chorus-go/pkg/playback"
	"github.com/Resonate-Protocol/chorus-go/pkg/render"
	"github.com/Resonate-Protocol/chorus-go/pkg/voice"
	"github.com/google/uuid"
)

// Config holds render and playback configuration
type Config struct {
	// Name labels the mix in the UI and object keys
	Name string

	// Title overrides DefaultTitle
	Title string

	// VoicesFile is a JSON array of voices; empty uses DefaultChoir
	VoicesFile string

	// Preset selects the formant singing renderer instead of voices
	Preset string
	Scale  string
	BPM    int
	Vowels string

	Duration   float64
	SampleRate int
	Channels   int
	Seed       *int64

	// NewOutput overrides the engine's audio context
	NewOutput func(sampleRate, channels int) (output.Output, error)

	// OnStateChange receives engine snapshots
	OnStateChange func(playback.Snapshot)

	// RestoreVolumeOnUnsolo keeps track volumes when a solo session ends
	RestoreVolumeOnUnsolo bool
}

// Mix is a rendered and encoded mix
type Mix struct {
	// Name labels the mix; it falls back to Title
	Name  string
	Title string

	// HarmonyMode is set when more than one voice sings
	HarmonyMode bool

	Voices []voice.Descriptor
	Result *render.Result
	WAV    []byte
}

// Session is a mix loaded into a playback engine
type Session struct {
	Mix
	Buffer *audio.Buffer
	Engine *playback.Engine
}

// DefaultChoir returns four enabled voices, one per range
func DefaultChoir() []voice.Descriptor {
	soprano := voice.New("Soprano", voice.Soprano)
	soprano.Mood = voice.Mood{Happy: 0.8, Calm: 0.4, Bright: 0.9}

	alto := voice.New("Alto", voice.Alto)
	alto.Waveform = voice.Triangle

	tenor := voice.New("Tenor", voice.Tenor)
	tenor.Waveform = voice.Blend
	tenor.Mood = voice.Mood{Happy: 0.6, Calm: 0.3, Bright: 0.5}

	bass := voice.New("Bass", voice.Bass)
	bass.Waveform = voice.Sawtooth
	bass.Mood = voice.Mood{Happy: 0.3, Calm: 0.9, Bright: 0.1}
	bass.Gain = 0.5

	return []voice.Descriptor{soprano, alto, tenor, bass}
}

// LoadVoices reads and validates a voices file
func LoadVoices(path string) ([]voice.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open voices: %w", err)
	}
	defer f.Close()

	voices, err := voice.ReadJSON(f)
	if err != nil {
		return nil, err
	}
	for _, v := range voices {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return voices, nil
}

// presetVoice describes a preset render as a single track
func presetVoice(preset string) voice.Descriptor {
	r := voice.Alto
	switch {
	case strings.HasPrefix(preset, "soprano"):
		r = voice.Soprano
	case strings.HasPrefix(preset, "tenor"):
		r = voice.Tenor
	case strings.HasPrefix(preset, "baritone"):
		r = voice.Bass
	}

	v := voice.New(preset, r)
	v.ID = preset
	v.Waveform = voice.Sawtooth
	v.Gain = 1
	return v
}

// RenderMix renders and encodes the configured mix as 16-bit WAV
func RenderMix(cfg Config) (*Mix, error) {
	mix := &Mix{Name: cfg.Name}

	if cfg.Preset != "" {
		res, err := render.RenderPreset(render.PresetRequest{
			Preset:     cfg.Preset,
			Scale:      cfg.Scale,
			BPM:        cfg.BPM,
			Seconds:    cfg.Duration,
			Vowels:     cfg.Vowels,
			SampleRate: cfg.SampleRate,
			Channels:   cfg.Channels,
			Seed:       cfg.Seed,
		})
		if err != nil {
			return nil, err
		}
		mix.Result = res
		mix.Voices = []voice.Descriptor{presetVoice(res.Tracks[0].VoiceID)}
		mix.Title = res.Tracks[0].Name
	} else {
		voices, err := cfg.voices()
		if err != nil {
			return nil, err
		}

		res, err := render.Render(voices, render.Options{
			Duration:   cfg.Duration,
			SampleRate: cfg.SampleRate,
			Channels:   cfg.Channels,
			Seed:       cfg.Seed,
		})
		if err != nil {
			return nil, err
		}
		mix.Result = res
		mix.Voices = voices
		mix.Title = DefaultTitle(voices)
		mix.HarmonyMode = len(res.Tracks) > 1
	}

	if cfg.Title != "" {
		mix.Title = cfg.Title
	}

	wav, err := encode.EncodeWAV(mix.Result.Mixed, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mix: %w", err)
	}
	mix.WAV = wav

	if mix.Name == "" {
		mix.Name = mix.Title
	}

	log.Printf("Rendered %s: %d tracks, %.2fs, %d bytes (peak %.3f, scale %.3f)",
		mix.Name, len(mix.Result.Tracks), mix.Result.Duration, len(wav), mix.Result.Peak, mix.Result.Scale)

	return mix, nil
}

// DefaultTitle names a mix after its only enabled voice, or counts the
// voices of a harmony
func DefaultTitle(voices []voice.Descriptor) string {
	enabled := voice.Enabled(voices)
	switch len(enabled) {
	case 0:
		return "Untitled Mix"
	case 1:
		return enabled[0].Name
	default:
		return fmt.Sprintf("Harmony of %d Objects", len(enabled))
	}
}

// voices returns the configured voices file or the default choir
func (cfg Config) voices() ([]voice.Descriptor, error) {
	if cfg.VoicesFile == "" {
		return DefaultChoir(), nil
	}
	return LoadVoices(cfg.VoicesFile)
}

// Open renders the mix and loads it into a new engine ready to play
func Open(ctx context.Context, cfg Config) (*Session, error) {
	mix, err := RenderMix(cfg)
	if err != nil {
		return nil, err
	}
	return bind(ctx, cfg, mix, mix.WAV)
}

// OpenFile loads an existing audio file (WAV, MP3 or FLAC) and binds the
// configured voices to it as tracks. The served WAV is re-encoded from the
// decoded buffer.
func OpenFile(ctx context.Context, cfg Config, path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	voices, err := cfg.voices()
	if err != nil {
		return nil, err
	}

	mix := &Mix{
		Name:        cfg.Name,
		Title:       cfg.Title,
		Voices:      voices,
		HarmonyMode: len(voice.Enabled(voices)) > 1,
	}
	if mix.Name == "" {
		mix.Name = filepath.Base(path)
	}
	if mix.Title == "" {
		mix.Title = DefaultTitle(voices)
	}

	sess, err := bind(ctx, cfg, mix, data)
	if err != nil {
		return nil, err
	}

	wav, err := encode.EncodeWAV(sess.Buffer, 16)
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("failed to encode mix: %w", err)
	}
	sess.WAV = wav
	sess.Result = &render.Result{
		ID:       uuid.NewString(),
		Mixed:    sess.Buffer,
		Duration: sess.Buffer.Duration(),
		Scale:    1,
	}

	log.Printf("Loaded %s: %.2fs, %d tracks", mix.Name, sess.Buffer.Duration(), len(voice.Enabled(voices)))
	return sess, nil
}

// bind decodes data into a new engine and sets up the mix's voices
func bind(ctx context.Context, cfg Config, mix *Mix, data []byte) (*Session, error) {
	eng := playback.New(playback.Config{
		SampleRate:            cfg.SampleRate,
		Channels:              cfg.Channels,
		NewOutput:             cfg.NewOutput,
		RestoreVolumeOnUnsolo: cfg.RestoreVolumeOnUnsolo,
		OnStateChange:         cfg.OnStateChange,
	})

	if err := eng.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	buf, err := eng.LoadAudio(ctx, data)
	if err != nil {
		eng.Dispose()
		return nil, fmt.Errorf("failed to load mix: %w", err)
	}

	if err := eng.SetupTracks(buf, mix.Voices); err != nil {
		eng.Dispose()
		return nil, fmt.Errorf("failed to set up tracks: %w", err)
	}

	return &Session{Mix: *mix, Buffer: buf, Engine: eng}, nil
}

// Close disposes the engine
func (s *Session) Close() error {
	return s.Engine.Dispose()
}
