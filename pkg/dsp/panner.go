// ABOUTME: Equal-power stereo panner
// ABOUTME: Follows the stereo panner law used by browser audio graphs
package dsp

import "math"

// ClampPan limits a pan position to [-1, 1]
func ClampPan(pan float64) float64 {
	if pan < -1 {
		return -1
	}
	if pan > 1 {
		return 1
	}
	return pan
}

// PanGains returns the left and right gains for a mono source
func PanGains(pan float64) (left, right float64) {
	x := (ClampPan(pan) + 1) / 2
	return math.Cos(x * math.Pi / 2), math.Sin(x * math.Pi / 2)
}

// PanStereo positions a stereo frame. Panning left folds the right channel
// into the left one, and panning right does the reverse.
func PanStereo(pan float64, l, r float64) (float64, float64) {
	pan = ClampPan(pan)
	if pan <= 0 {
		x := pan + 1
		gl, gr := math.Cos(x*math.Pi/2), math.Sin(x*math.Pi/2)
		return l + r*gl, r * gr
	}
	gl, gr := math.Cos(pan*math.Pi/2), math.Sin(pan*math.Pi/2)
	return l * gl, r + l*gr
}
