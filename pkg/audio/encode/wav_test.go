// ABOUTME: Unit tests for the WAV encoder
// ABOUTME: Tests header layout, determinism and data URLs
package encode

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

func sineBuffer(sampleRate, channels int, seconds float64) *audio.Buffer {
	frames := int(math.Round(seconds * float64(sampleRate)))
	buf := audio.NewBuffer(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		v := float32(0.8 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			buf.Data[ch][i] = v
		}
	}
	return buf
}

func TestEncodeWAVHeader(t *testing.T) {
	buf := sineBuffer(44100, 2, 2)

	wav, err := EncodeWAV(buf, 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	if len(wav) != 352844 {
		t.Fatalf("expected 352844 bytes, got %d", len(wav))
	}

	tests := []struct {
		name   string
		offset int
		size   int
		want   uint32
	}{
		{"riff size", 4, 4, 36 + 352800},
		{"fmt size", 16, 4, 16},
		{"audio format", 20, 2, 1},
		{"channels", 22, 2, 2},
		{"sample rate", 24, 4, 44100},
		{"byte rate", 28, 4, 44100 * 4},
		{"block align", 32, 2, 4},
		{"bits per sample", 34, 2, 16},
		{"data size", 40, 4, 352800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uint32
			if tt.size == 2 {
				got = uint32(binary.LittleEndian.Uint16(wav[tt.offset:]))
			} else {
				got = binary.LittleEndian.Uint32(wav[tt.offset:])
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}

	for _, tag := range []struct {
		offset int
		want   string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"}} {
		if got := string(wav[tag.offset : tag.offset+4]); got != tag.want {
			t.Errorf("expected %q at %d, got %q", tag.want, tag.offset, got)
		}
	}
}

func TestEncodeWAVDeterministic(t *testing.T) {
	buf := sineBuffer(22050, 1, 0.25)

	first, err := EncodeWAV(buf, 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}
	second, err := EncodeWAV(buf, 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected byte-identical output for identical input")
	}
}

func TestEncodeWAVPadsOddData(t *testing.T) {
	buf := audio.NewBuffer(8000, 1, 3)

	wav, err := EncodeWAV(buf, 24)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	// 9 data bytes plus one pad byte
	if len(wav) != HeaderSize+10 {
		t.Errorf("expected %d bytes, got %d", HeaderSize+10, len(wav))
	}
	if size := binary.LittleEndian.Uint32(wav[40:]); size != 9 {
		t.Errorf("expected declared data size 9, got %d", size)
	}
}

func TestEncodeWAVErrors(t *testing.T) {
	tests := []struct {
		name     string
		buf      *audio.Buffer
		bitDepth int
	}{
		{"nil buffer", nil, 16},
		{"no channels", &audio.Buffer{SampleRate: 44100}, 16},
		{"bad bit depth", audio.NewBuffer(44100, 2, 4), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeWAV(tt.buf, tt.bitDepth)
			if !errors.Is(err, audio.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestWAVDataSizeLimit(t *testing.T) {
	tests := []struct {
		name     string
		dataSize int
		wantErr  bool
	}{
		{"empty", 0, false},
		{"largest payload", math.MaxUint32 - 36, false},
		{"one byte over", math.MaxUint32 - 35, true},
		{"over 4 GiB", 5 << 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDataSize(tt.dataSize)
			if tt.wantErr && !errors.Is(err, audio.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestWAVEncoderInterface(t *testing.T) {
	encoder, err := NewWAV(audio.Format{Codec: "wav", SampleRate: 44100, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewWAV() failed: %v", err)
	}
	defer encoder.Close()

	wav, err := encoder.Encode(sineBuffer(44100, 2, 0.01))
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if string(wav[:4]) != "RIFF" {
		t.Error("expected RIFF header")
	}

	if _, err := NewWAV(audio.Format{Codec: "pcm", BitDepth: 16}); err == nil {
		t.Error("expected error for wrong codec")
	}
}

func TestDataURL(t *testing.T) {
	wav := []byte("RIFF0000WAVE")
	url := DataURL(wav)

	const prefix = "data:audio/wav;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("expected prefix %q, got %q", prefix, url)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if !bytes.Equal(decoded, wav) {
		t.Error("payload does not match input")
	}
}
