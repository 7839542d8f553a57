// ABOUTME: Voice descriptors consumed by the renderer and playback engine
// ABOUTME: Defines vocal ranges, waveforms, mood and their lookup tables
package voice

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/google/uuid"
)

// VocalRange names the register a voice sings in
type VocalRange string

const (
	Bass    VocalRange = "bass"
	Tenor   VocalRange = "tenor"
	Alto    VocalRange = "alto"
	Soprano VocalRange = "soprano"
)

// Waveform names the oscillator shape of a voice
type Waveform string

const (
	Sine     Waveform = "sine"
	Triangle Waveform = "triangle"
	Sawtooth Waveform = "sawtooth"
	// Blend mixes 0.6 sine with 0.4 triangle
	Blend Waveform = "blend"
)

const (
	// DefaultGain is the volume given to new voices
	DefaultGain = 0.7

	// DefaultFilterFrequency applies to unknown vocal ranges
	DefaultFilterFrequency = 800.0

	// DefaultBaseFrequency applies to unknown vocal ranges
	DefaultBaseFrequency = 262.0
)

// Mood modulates a voice. Each axis is in [0, 1].
type Mood struct {
	Happy  float64 `json:"happy" validate:"gte=0,lte=1"`
	Calm   float64 `json:"calm" validate:"gte=0,lte=1"`
	Bright float64 `json:"bright" validate:"gte=0,lte=1"`
}

// Descriptor holds one track's synthesis parameters
type Descriptor struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	VocalRange VocalRange `json:"vocalRange"`
	Waveform   Waveform   `json:"waveform"`
	Mood       Mood       `json:"mood"`
	Gain       float64    `json:"volume" validate:"gte=0,lte=1"`
	Enabled    bool       `json:"enabled"`
}

// New creates an enabled alto sine voice with a fresh ID
func New(name string, r VocalRange) Descriptor {
	return Descriptor{
		ID:         uuid.NewString(),
		Name:       name,
		VocalRange: r,
		Waveform:   Sine,
		Mood:       Mood{Happy: 0.5, Calm: 0.5, Bright: 0.5},
		Gain:       DefaultGain,
		Enabled:    true,
	}
}

// BaseFrequency returns the anchor pitch in Hz for a vocal range
func BaseFrequency(r VocalRange) float64 {
	switch r {
	case Bass:
		return 110
	case Tenor:
		return 196
	case Alto:
		return 262
	case Soprano:
		return 392
	default:
		return DefaultBaseFrequency
	}
}

// FilterFrequency returns the band-pass center in Hz for a vocal range
func FilterFrequency(r VocalRange) float64 {
	switch r {
	case Bass:
		return 200
	case Tenor:
		return 400
	case Alto:
		return 800
	case Soprano:
		return 1600
	default:
		return DefaultFilterFrequency
	}
}

// Known reports whether r is one of the four named ranges
func (r VocalRange) Known() bool {
	switch r {
	case Bass, Tenor, Alto, Soprano:
		return true
	default:
		return false
	}
}

// Known reports whether w is a named waveform
func (w Waveform) Known() bool {
	switch w {
	case Sine, Triangle, Sawtooth, Blend:
		return true
	default:
		return false
	}
}

// Enabled filters voices down to the enabled ones, keeping order
func Enabled(voices []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(voices))
	for _, v := range voices {
		if v.Enabled {
			out = append(out, v)
		}
	}
	return out
}

// ReadJSON decodes a JSON array of voices
func ReadJSON(r io.Reader) ([]Descriptor, error) {
	var voices []Descriptor
	if err := json.NewDecoder(r).Decode(&voices); err != nil {
		return nil, fmt.Errorf("%w: failed to parse voices: %v", audio.ErrInvalidInput, err)
	}
	for i := range voices {
		if voices[i].ID == "" {
			voices[i].ID = uuid.NewString()
		}
	}
	return voices, nil
}
