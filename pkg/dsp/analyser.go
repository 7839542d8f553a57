// ABOUTME: Analysis tap producing frequency and time-domain snapshots
// ABOUTME: Windowed FFT over the most recent samples via gonum
package dsp

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// DefaultFFTSize matches the analysis window used by browser analysers
	DefaultFFTSize = 2048

	// MinDecibels maps to byte value 0
	MinDecibels = -100.0

	// MaxDecibels maps to byte value 255
	MaxDecibels = -30.0
)

// Analyser keeps the last FFTSize mono samples written by the audio thread.
// Snapshots reflect only the current window; nothing is smoothed across calls.
type Analyser struct {
	mu     sync.Mutex
	size   int
	ring   []float64
	pos    int
	fft    *fourier.FFT
	window []float64
}

// NewAnalyser creates an analyser. size must be a power of two; other values fall back to DefaultFFTSize.
func NewAnalyser(size int) *Analyser {
	if size < 32 || size&(size-1) != 0 {
		size = DefaultFFTSize
	}

	window := make([]float64, size)
	for i := range window {
		// Blackman window
		a := 2 * math.Pi * float64(i) / float64(size)
		window[i] = 0.42 - 0.5*math.Cos(a) + 0.08*math.Cos(2*a)
	}

	return &Analyser{
		size:   size,
		ring:   make([]float64, size),
		fft:    fourier.NewFFT(size),
		window: window,
	}
}

// FFTSize returns the analysis window length
func (a *Analyser) FFTSize() int {
	return a.size
}

// FrequencyBinCount returns the number of frequency bins
func (a *Analyser) FrequencyBinCount() int {
	return a.size / 2
}

// Write appends samples to the analysis window
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % a.size
	}
	a.mu.Unlock()
}

// Reset silences the analysis window
func (a *Analyser) Reset() {
	a.mu.Lock()
	for i := range a.ring {
		a.ring[i] = 0
	}
	a.pos = 0
	a.mu.Unlock()
}

// snapshot returns the window oldest sample first
func (a *Analyser) snapshot() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]float64, a.size)
	n := copy(out, a.ring[a.pos:])
	copy(out[n:], a.ring[:a.pos])
	return out
}

// FrequencyData returns byte magnitudes for FrequencyBinCount bins
func (a *Analyser) FrequencyData() []uint8 {
	samples := a.snapshot()
	for i := range samples {
		samples[i] *= a.window[i]
	}

	coeffs := a.fft.Coefficients(nil, samples)
	bins := a.FrequencyBinCount()
	out := make([]uint8, bins)
	scale := 255.0 / (MaxDecibels - MinDecibels)

	for k := 0; k < bins; k++ {
		mag := math.Hypot(real(coeffs[k]), imag(coeffs[k])) / float64(a.size)
		db := MinDecibels
		if mag > 0 {
			db = 20 * math.Log10(mag)
		}
		out[k] = clampByte(math.Floor(scale * (db - MinDecibels)))
	}
	return out
}

// TimeDomainData returns the current waveform as bytes centered on 128
func (a *Analyser) TimeDomainData() []uint8 {
	samples := a.snapshot()
	out := make([]uint8, len(samples))
	for i, s := range samples {
		out[i] = clampByte(math.Floor(128 * (1 + s)))
	}
	return out
}

// Level returns the RMS of the current window
func (a *Analyser) Level() float64 {
	samples := a.snapshot()
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
