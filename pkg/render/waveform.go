// ABOUTME: Waveform summaries for track visualization
// ABOUTME: Reduces a track to a fixed number of normalized (t, v) points
package render

import "math"

// WaveformPoint is one visualization sample
type WaveformPoint struct {
	T float64 `json:"t"` // position in [0, 1]
	V float64 `json:"v"` // amplitude in [-1, 1]
}

// Summarize reduces samples to n points. Each point carries the signed
// sample of largest magnitude in its bucket, relative to the track peak.
func Summarize(samples []float32, n int) []WaveformPoint {
	if n < 2 {
		n = 2
	}
	points := make([]WaveformPoint, n)

	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}

	total := len(samples)
	for i := range points {
		points[i].T = float64(i) / float64(n-1)
		if total == 0 || peak == 0 {
			continue
		}

		start := i * total / n
		end := (i + 1) * total / n
		if end <= start {
			end = start + 1
		}
		if start >= total {
			start = total - 1
			end = total
		}

		best := 0.0
		for _, s := range samples[start:end] {
			if math.Abs(float64(s)) > math.Abs(best) {
				best = float64(s)
			}
		}
		points[i].V = math.Max(-1, math.Min(1, best/peak))
	}

	return points
}
