// ABOUTME: Formant singing preset renderer
// ABOUTME: Sings an eighth-note melody on vowel formants for a named voice preset
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/dsp"
	"github.com/google/uuid"
)

const (
	// PresetPeak is the normalized peak of preset renders
	PresetPeak = 0.8

	presetSeed     = 42
	formantQ       = 5.0
	presetAttack   = 0.015
	presetRelease  = 0.08
	presetLevel    = 0.3
	defaultVowels  = "AEIOU"
	minPresetBPM   = 40
	maxPresetBPM   = 240
	minPresetSecs  = 1.0
	maxPresetSecs  = 60.0
	defaultPreset  = "alto-soft"
	defaultRootKey = 60
)

// presetRoots maps preset names to MIDI root notes
var presetRoots = map[string]int{
	"soprano-airy":  67,
	"alto-soft":     60,
	"tenor-bright":  55,
	"baritone-warm": 50,
}

// formants holds the first two formant frequencies per vowel
var formants = map[rune][2]float64{
	'A': {730, 1090},
	'E': {530, 1840},
	'I': {270, 2290},
	'O': {570, 840},
	'U': {300, 870},
}

// PresetRequest describes a formant singing render
type PresetRequest struct {
	Preset     string  // soprano-airy, alto-soft, tenor-bright or baritone-warm
	Scale      string  // major or minor
	BPM        int     // 40..240
	Seconds    float64 // 1..60
	Vowels     string  // vowel cycle, defaults to AEIOU
	SampleRate int
	Channels   int
	Seed       *int64
}

// PresetRoot returns the MIDI root for a preset, defaulting to alto-soft
func PresetRoot(preset string) int {
	if root, ok := presetRoots[preset]; ok {
		return root
	}
	return defaultRootKey
}

// MIDIFrequency converts a MIDI note number to Hz
func MIDIFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// RenderPreset renders a single sung track and normalizes it to PresetPeak
func RenderPreset(req PresetRequest) (*Result, error) {
	if req.BPM < minPresetBPM || req.BPM > maxPresetBPM {
		return nil, fmt.Errorf("%w: bpm must be between %d and %d, got %d", audio.ErrInvalidInput, minPresetBPM, maxPresetBPM, req.BPM)
	}
	if math.IsNaN(req.Seconds) || req.Seconds < minPresetSecs || req.Seconds > maxPresetSecs {
		return nil, fmt.Errorf("%w: duration must be between 1 and 60 seconds, got %v", audio.ErrInvalidInput, req.Seconds)
	}

	o, err := Options{Duration: req.Seconds, SampleRate: req.SampleRate, Channels: req.Channels}.withDefaults()
	if err != nil {
		return nil, err
	}

	vowels := vowelCycle(req.Vowels)
	scale := MajorScale
	if req.Scale == "minor" {
		scale = MinorScale
	}
	preset := req.Preset
	if _, ok := presetRoots[preset]; !ok {
		preset = defaultPreset
	}
	root := PresetRoot(preset)

	seed := int64(presetSeed)
	if req.Seed != nil {
		seed = *req.Seed
	}

	frames := o.frames()
	rate := float64(o.SampleRate)
	eighth := 60.0 / float64(req.BPM) / 2
	noteFrames := int(math.Round(eighth * rate))
	count := (frames + noteFrames - 1) / noteFrames
	notes := melody(scale, count, newLCG(seed))

	out := make([]float64, frames)
	f1 := dsp.NewBandPass(formants['A'][0], formantQ, o.SampleRate)
	f2 := dsp.NewBandPass(formants['A'][1], formantQ, o.SampleRate)

	for n, semitone := range notes {
		start := n * noteFrames
		end := min(start+noteFrames, frames)
		length := end - start
		freq := MIDIFrequency(root + semitone)

		f := formants[vowels[n%len(vowels)]]
		f1.SetParams(f[0], formantQ, o.SampleRate)
		f2.SetParams(f[1], formantQ, o.SampleRate)

		attack := min(int(presetAttack*rate), length/4)
		release := min(int(presetRelease*rate), length/4)

		for i := 0; i < length; i++ {
			t := float64(i) / rate
			src := sawtooth(freq * t)
			voiced := f1.Process(src) + 0.5*f2.Process(src)

			env := 1.0
			if attack > 0 && i < attack {
				env = float64(i) / float64(attack)
			} else if release > 0 && i >= length-release {
				env = float64(length-1-i) / float64(release)
			}
			out[start+i] = voiced * env * presetLevel
		}
	}

	peak := 0.0
	for _, s := range out {
		peak = math.Max(peak, math.Abs(s))
	}
	scaleBy := 1.0
	if peak > 0 {
		scaleBy = PresetPeak / peak
	}

	samples := make([]float32, frames)
	for i, s := range out {
		samples[i] = float32(s * scaleBy)
	}

	buf := audio.NewBuffer(o.SampleRate, o.Channels, frames)
	for ch := range buf.Data {
		copy(buf.Data[ch], samples)
	}

	return &Result{
		ID:       uuid.NewString(),
		Mixed:    buf,
		Tracks:   []Track{{VoiceID: preset, Name: preset, Gain: 1, Samples: samples, Waveform: Summarize(samples, DefaultWaveformPoints)}},
		Duration: buf.Duration(),
		Peak:     peak,
		Scale:    scaleBy,
	}, nil
}

// vowelCycle keeps the vowels of s, defaulting to AEIOU
func vowelCycle(s string) []rune {
	var out []rune
	for _, r := range strings.ToUpper(s) {
		if _, ok := formants[r]; ok {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return []rune(defaultVowels)
	}
	return out
}
