// ABOUTME: Unit tests for PCM encoder
// ABOUTME: Tests 16-bit and 24-bit interleaved PCM encoding
package encode

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid 16-bit PCM",
			format:  audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16},
			wantErr: false,
		},
		{
			name:    "valid 24-bit PCM",
			format:  audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 24},
			wantErr: false,
		},
		{
			name:        "invalid codec",
			format:      audio.Format{Codec: "wav", SampleRate: 44100, Channels: 2, BitDepth: 16},
			wantErr:     true,
			errContains: "invalid codec",
		},
		{
			name:        "unsupported bit depth",
			format:      audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 32},
			wantErr:     true,
			errContains: "unsupported bit depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPCM() expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewPCM() error = %v, want error containing %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("NewPCM() unexpected error = %v", err)
				}
				if encoder == nil {
					t.Errorf("NewPCM() returned nil encoder")
				}
			}
		})
	}
}

func TestPCMEncoder_Encode16Bit(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	buf := &audio.Buffer{
		SampleRate: 44100,
		Data: [][]float32{
			{0, 1, -1},
			{0.5, 2, -2},
		},
	}

	output, err := encoder.Encode(buf)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	expected := []int16{0, 16384, 32767, 32767, -32767, -32768}
	if len(output) != len(expected)*2 {
		t.Fatalf("Encode() output size = %d, want %d", len(output), len(expected)*2)
	}

	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if got != want {
			t.Errorf("Sample %d: got %d, want %d", i, got, want)
		}
	}
}

func TestPCMEncoder_Encode24Bit(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 1, BitDepth: 24})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	buf := &audio.Buffer{SampleRate: 48000, Data: [][]float32{{0, 1, -1.5}}}

	output, err := encoder.Encode(buf)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	if len(output) != 9 {
		t.Fatalf("Encode() output size = %d, want 9", len(output))
	}

	expected := []int32{0, audio.Max24Bit, audio.Min24Bit}
	for i, want := range expected {
		got := audio.SampleFrom24Bit([3]byte{output[i*3], output[i*3+1], output[i*3+2]})
		if got != want {
			t.Errorf("Sample %d: got %d, want %d", i, got, want)
		}
	}
}

func TestPCMEncoder_RejectsRaggedBuffer(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	_, err = encoder.Encode(&audio.Buffer{SampleRate: 44100, Data: [][]float32{{0, 0}, {0}}})
	if !errors.Is(err, audio.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
