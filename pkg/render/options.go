// ABOUTME: Render options and their defaults
// ABOUTME: Validates durations, rates and channel counts before synthesis
package render

import (
	"fmt"
	"math"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

const (
	// DefaultSampleRate is the output rate when none is given
	DefaultSampleRate = 44100

	// DefaultChannels renders stereo
	DefaultChannels = 2

	// DefaultDuration is the song length used by the CLI
	DefaultDuration = 8.0

	// DefaultWaveformPoints is the length of each visualization summary
	DefaultWaveformPoints = 256

	// DefaultMaxTracks caps the number of enabled voices per render
	DefaultMaxTracks = 10

	// NoteDuration is the length of one melody note in seconds
	NoteDuration = 0.5

	maxChannels = 8
)

// Options controls a render pass
type Options struct {
	Duration       float64 // seconds, must be positive
	SampleRate     int
	Channels       int
	Seed           *int64 // nil derives melodies from voice parameters
	WaveformPoints int
	MaxTracks      int
}

// withDefaults fills zero fields and validates the rest
func (o Options) withDefaults() (Options, error) {
	if o.SampleRate == 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Channels == 0 {
		o.Channels = DefaultChannels
	}
	if o.WaveformPoints == 0 {
		o.WaveformPoints = DefaultWaveformPoints
	}
	if o.MaxTracks == 0 {
		o.MaxTracks = DefaultMaxTracks
	}

	if math.IsNaN(o.Duration) || math.IsInf(o.Duration, 0) || o.Duration <= 0 {
		return o, fmt.Errorf("%w: duration must be positive, got %v", audio.ErrInvalidInput, o.Duration)
	}
	if o.SampleRate < 0 {
		return o, fmt.Errorf("%w: sample rate must be positive, got %d", audio.ErrInvalidInput, o.SampleRate)
	}
	if o.Channels < 0 || o.Channels > maxChannels {
		return o, fmt.Errorf("%w: channels must be between 1 and %d, got %d", audio.ErrInvalidInput, maxChannels, o.Channels)
	}
	if o.WaveformPoints < 2 {
		return o, fmt.Errorf("%w: waveform needs at least 2 points, got %d", audio.ErrInvalidInput, o.WaveformPoints)
	}
	frames := math.Round(o.Duration * float64(o.SampleRate))
	if frames < 1 {
		return o, fmt.Errorf("%w: duration %v is shorter than one sample", audio.ErrInvalidInput, o.Duration)
	}
	if frames > maxFrames(o.Channels) {
		return o, fmt.Errorf("%w: duration %v does not fit in a WAV file", audio.ErrInvalidInput, o.Duration)
	}

	return o, nil
}

// maxFrames is the longest render whose 16-bit WAV payload fits the
// 32-bit RIFF size fields
func maxFrames(channels int) float64 {
	return math.Floor((math.MaxUint32 - 36) / float64(2*channels))
}

// frames returns the number of sample frames the render produces
func (o Options) frames() int {
	return int(math.Round(o.Duration * float64(o.SampleRate)))
}
