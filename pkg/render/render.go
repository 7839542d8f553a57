// ABOUTME: Offline renderer turning voice descriptors into a mixed buffer
// ABOUTME: Synthesizes each enabled voice, mixes globally and summarizes waveforms
package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/voice"
	"github.com/google/uuid"
)

const tremoloRate = 5.0 // Hz

// Track is the rendered output of one voice
type Track struct {
	VoiceID    string
	Name       string
	VocalRange voice.VocalRange
	Gain       float64
	Samples    []float32 // mono, before mixing
	Waveform   []WaveformPoint
}

// Result is the output of a render pass
type Result struct {
	ID       string
	Mixed    *audio.Buffer
	Tracks   []Track
	Duration float64
	Peak     float64 // peak of the raw sum before normalization
	Scale    float64 // factor applied to the sum, 1 when it did not clip
}

// Render synthesizes every enabled voice and mixes them. Nothing is
// returned unless every voice renders.
func Render(voices []voice.Descriptor, opts Options) (*Result, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	enabled := voice.Enabled(voices)
	if len(enabled) == 0 {
		return nil, fmt.Errorf("%w: at least one enabled voice is required", audio.ErrInvalidInput)
	}
	if len(enabled) > o.MaxTracks {
		return nil, fmt.Errorf("%w: too many tracks (max %d), got %d", audio.ErrInvalidInput, o.MaxTracks, len(enabled))
	}
	for _, v := range enabled {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	tracks := make([]Track, len(enabled))
	var wg sync.WaitGroup
	for i, v := range enabled {
		wg.Add(1)
		go func(i int, v voice.Descriptor) {
			defer wg.Done()
			samples := synthesize(v, o)
			tracks[i] = Track{
				VoiceID:    v.ID,
				Name:       v.Name,
				VocalRange: v.VocalRange,
				Gain:       v.Gain,
				Samples:    samples,
				Waveform:   Summarize(samples, o.WaveformPoints),
			}
		}(i, v)
	}
	wg.Wait()

	mixed, peak, scale := mix(tracks, o)

	return &Result{
		ID:       uuid.NewString(),
		Mixed:    mixed,
		Tracks:   tracks,
		Duration: mixed.Duration(),
		Peak:     peak,
		Scale:    scale,
	}, nil
}

// synthesize renders one voice as a mono track of tiled notes
func synthesize(v voice.Descriptor, o Options) []float32 {
	frames := o.frames()
	rate := float64(o.SampleRate)
	out := make([]float32, frames)

	noteFrames := int(math.Round(NoteDuration * rate))
	if noteFrames < 1 {
		noteFrames = 1
	}
	count := (frames + noteFrames - 1) / noteFrames
	notes := melody(MajorScale, count, newLCG(voiceSeed(v, o.Seed)))

	env := newEnvelope(v.Mood.Calm)
	base := voice.BaseFrequency(v.VocalRange)
	energy := 0.3 + v.Mood.Happy*0.5
	sustain := v.Mood.Calm*0.8 + 0.2
	level := energy * sustain * v.Gain

	for n, semitone := range notes {
		start := n * noteFrames
		end := min(start+noteFrames, frames)
		length := end - start
		freq := base * math.Pow(2, float64(semitone)/12)

		for i := 0; i < length; i++ {
			t := float64(i) / rate
			tremolo := 1 + v.Mood.Bright*0.2*math.Sin(2*math.Pi*tremoloRate*t)
			amp := env.at(float64(i)/float64(length)) * tremolo * level
			out[start+i] = float32(oscillate(v.Waveform, freq*t) * amp)
		}
	}

	return out
}

// mix sums tracks into every channel and scales by 1/peak only when the sum clips
func mix(tracks []Track, o Options) (*audio.Buffer, float64, float64) {
	frames := o.frames()
	sum := make([]float64, frames)
	for _, tr := range tracks {
		for i, s := range tr.Samples {
			sum[i] += float64(s)
		}
	}

	peak := 0.0
	for _, s := range sum {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	scale := 1.0
	if peak > 1 {
		scale = 1 / peak
	}

	buf := audio.NewBuffer(o.SampleRate, o.Channels, frames)
	for i, s := range sum {
		v := float32(s * scale)
		for ch := range buf.Data {
			buf.Data[ch][i] = v
		}
	}

	return buf, peak, scale
}
