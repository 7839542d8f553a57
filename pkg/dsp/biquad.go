// ABOUTME: Band-pass biquad filter
// ABOUTME: Audio EQ cookbook coefficients with constant 0 dB peak gain
package dsp

import "math"

// DefaultQ is the resonance used for per-track voice filters
const DefaultQ = 1.0

// Biquad is a second-order IIR band-pass section in direct form I
type Biquad struct {
	frequency float64
	q         float64

	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// NewBandPass creates a band-pass filter centered on frequency
func NewBandPass(frequency, q float64, sampleRate int) *Biquad {
	f := &Biquad{}
	f.SetParams(frequency, q, sampleRate)
	return f
}

// SetParams recomputes the coefficients, keeping filter state
func (f *Biquad) SetParams(frequency, q float64, sampleRate int) {
	nyquist := float64(sampleRate) / 2
	if frequency <= 0 {
		frequency = 1
	}
	if frequency >= nyquist {
		frequency = nyquist * 0.999
	}
	if q <= 0 {
		q = DefaultQ
	}

	w := 2.0 * math.Pi * frequency / float64(sampleRate)
	cosw := math.Cos(w)
	alpha := math.Sin(w) / (2.0 * q)
	a0 := 1.0 + alpha

	f.frequency = frequency
	f.q = q
	f.b0 = alpha / a0
	f.b1 = 0
	f.b2 = -alpha / a0
	f.a1 = -2.0 * cosw / a0
	f.a2 = (1.0 - alpha) / a0
}

// Frequency returns the center frequency in Hz
func (f *Biquad) Frequency() float64 {
	return f.frequency
}

// Q returns the filter resonance
func (f *Biquad) Q() float64 {
	return f.q
}

// Process filters one sample
func (f *Biquad) Process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2

	f.x2 = f.x1
	f.x1 = x
	f.y2 = f.y1
	f.y1 = y

	return y
}

// Reset clears the filter history
func (f *Biquad) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}
