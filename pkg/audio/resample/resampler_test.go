// ABOUTME: Tests for the linear resampler
// ABOUTME: Tests interpolation, frame counts and whole-buffer conversion
package resample

import (
	"math"
	"testing"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

func TestResampleUpsampleInterpolates(t *testing.T) {
	r := New(1, 2, 1)
	input := []float32{0, 1, 0}
	output := make([]float32, 8)

	n := r.Resample(input, output)
	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}

	expected := []float32{0, 0.5, 1, 0.5}
	for i, want := range expected {
		if math.Abs(float64(output[i]-want)) > 1e-6 {
			t.Errorf("sample %d: expected %f, got %f", i, want, output[i])
		}
	}
}

func TestResampleStereoKeepsChannelsApart(t *testing.T) {
	r := New(2, 1, 2)
	input := []float32{1, -1, 1, -1, 1, -1, 1, -1}
	output := make([]float32, 8)

	n := r.Resample(input, output)
	for i := 0; i < n; i += 2 {
		if output[i] != 1 || output[i+1] != -1 {
			t.Fatalf("frame %d mixed channels: %v", i/2, output[i:i+2])
		}
	}
}

func TestOutputSamplesNeeded(t *testing.T) {
	tests := []struct {
		name     string
		in, out  int
		samples  int
		expected int
	}{
		{"same rate", 44100, 44100, 200, 200},
		{"downsample", 48000, 24000, 200, 100},
		{"upsample", 22050, 44100, 200, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.in, tt.out, 2)
			if got := r.OutputSamplesNeeded(tt.samples); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestBuffer(t *testing.T) {
	buf := audio.NewBuffer(48000, 2, 4800)
	for i := range buf.Data[0] {
		buf.Data[0][i] = 0.5
		buf.Data[1][i] = -0.5
	}

	out := Buffer(buf, 44100)
	if out.SampleRate != 44100 {
		t.Fatalf("expected 44100Hz, got %d", out.SampleRate)
	}
	if diff := math.Abs(out.Duration() - buf.Duration()); diff > 0.001 {
		t.Errorf("duration changed by %f seconds", diff)
	}
	if out.Data[0][100] != 0.5 || out.Data[1][100] != -0.5 {
		t.Error("constant signal was not preserved")
	}

	if same := Buffer(buf, 48000); same != buf {
		t.Error("expected buffer at target rate to be returned unchanged")
	}
}
