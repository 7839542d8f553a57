// ABOUTME: Tests for audio types
// ABOUTME: Tests buffer helpers and sample conversion functions
package audio

import (
	"errors"
	"testing"
)

func TestFloatToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"full scale", 1, 32767},
		{"negative full scale", -1, -32767},
		{"clamp high", 1.5, 32767},
		{"clamp low", -1.5, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FloatToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	for v := -32768; v <= 32767; v += 7 {
		original := int16(v)
		result := FloatToInt16(Int16ToFloat(original))
		if result != original {
			t.Fatalf("round-trip failed: %d -> %d", original, result)
		}
	}
}

func TestSampleTo24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleTo24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
			if back := SampleFrom24Bit(result); back != tt.input {
				t.Errorf("expected %d after unpacking, got %d", tt.input, back)
			}
		})
	}
}

func TestFloatTo24BitClamps(t *testing.T) {
	if got := FloatTo24Bit(2); got != Max24Bit {
		t.Errorf("expected %d, got %d", Max24Bit, got)
	}
	if got := FloatTo24Bit(-2); got != Min24Bit {
		t.Errorf("expected %d, got %d", Min24Bit, got)
	}
}

func TestBufferHelpers(t *testing.T) {
	buf := NewBuffer(100, 2, 50)
	buf.Data[0][10] = -0.75
	buf.Data[1][20] = 0.5

	if buf.Channels() != 2 {
		t.Errorf("expected 2 channels, got %d", buf.Channels())
	}
	if buf.Frames() != 50 {
		t.Errorf("expected 50 frames, got %d", buf.Frames())
	}
	if buf.Duration() != 0.5 {
		t.Errorf("expected duration 0.5, got %f", buf.Duration())
	}
	if buf.Peak() != 0.75 {
		t.Errorf("expected peak 0.75, got %f", buf.Peak())
	}

	interleaved := buf.Interleave()
	if interleaved[20] != -0.75 || interleaved[41] != 0.5 {
		t.Errorf("unexpected interleaved layout")
	}

	back := Deinterleave(interleaved, 100, 2)
	if back.Data[0][10] != -0.75 || back.Data[1][20] != 0.5 {
		t.Errorf("deinterleave did not restore samples")
	}

	clone := buf.Clone()
	clone.Data[0][10] = 0
	if buf.Data[0][10] != -0.75 {
		t.Error("clone shares storage with original")
	}
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name    string
		buf     *Buffer
		wantErr bool
	}{
		{"nil", nil, true},
		{"no channels", &Buffer{SampleRate: 44100}, true},
		{"bad rate", &Buffer{SampleRate: 0, Data: [][]float32{{0}}}, true},
		{"ragged", &Buffer{SampleRate: 44100, Data: [][]float32{{0, 0}, {0}}}, true},
		{"valid", NewBuffer(44100, 2, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
