// ABOUTME: Periodic waveform generators
// ABOUTME: Maps each voice waveform to a function of phase in cycles
package render

import (
	"math"

	"github.com/Resonate-Protocol/chorus-go/pkg/voice"
)

// oscillate returns the waveform value at phase, measured in cycles
func oscillate(w voice.Waveform, phase float64) float64 {
	switch w {
	case voice.Triangle:
		return triangle(phase)
	case voice.Sawtooth:
		return sawtooth(phase)
	case voice.Blend:
		return 0.6*sine(phase) + 0.4*triangle(phase)
	default:
		return sine(phase)
	}
}

func sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

func triangle(phase float64) float64 {
	return 2.0 / math.Pi * math.Asin(math.Sin(2*math.Pi*phase))
}

func sawtooth(phase float64) float64 {
	return 2.0 * (phase - math.Floor(phase+0.5))
}
