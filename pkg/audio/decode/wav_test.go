// ABOUTME: Tests for the WAV decoder
// ABOUTME: Tests chunk walking, format support and encode round trips
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/encode"
)

func testTone(frames int) *audio.Buffer {
	buf := audio.NewBuffer(44100, 2, frames)
	for i := 0; i < frames; i++ {
		v := float32(0.9 * math.Sin(float64(i)*0.05))
		buf.Data[0][i] = v
		buf.Data[1][i] = -v / 2
	}
	return buf
}

func TestWAVRoundTripIsIdempotent(t *testing.T) {
	first, err := encode.EncodeWAV(testTone(4410), 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	decoded, err := NewWAV().Decode(first)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if decoded.SampleRate != 44100 || decoded.Channels() != 2 || decoded.Frames() != 4410 {
		t.Fatalf("unexpected format: %dHz %dch %d frames", decoded.SampleRate, decoded.Channels(), decoded.Frames())
	}

	second, err := encode.EncodeWAV(decoded, 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected decode then encode to reproduce the same bytes")
	}
}

func TestWAVSkipsUnknownChunks(t *testing.T) {
	wav, err := encode.EncodeWAV(testTone(100), 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	// Insert an odd-sized LIST chunk between fmt and data
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	buf, err := NewWAV().Decode(withList)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if buf.Frames() != 100 {
		t.Errorf("expected 100 frames, got %d", buf.Frames())
	}
}

func TestWAVFloatFormat(t *testing.T) {
	samples := []float32{0.25, -0.5}
	data := make([]byte, 44+8)
	copy(data[0:], "RIFF")
	binary.LittleEndian.PutUint32(data[4:], uint32(36+8))
	copy(data[8:], "WAVEfmt ")
	binary.LittleEndian.PutUint32(data[16:], 16)
	binary.LittleEndian.PutUint16(data[20:], 3)
	binary.LittleEndian.PutUint16(data[22:], 1)
	binary.LittleEndian.PutUint32(data[24:], 8000)
	binary.LittleEndian.PutUint32(data[28:], 32000)
	binary.LittleEndian.PutUint16(data[32:], 4)
	binary.LittleEndian.PutUint16(data[34:], 32)
	copy(data[36:], "data")
	binary.LittleEndian.PutUint32(data[40:], 8)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[44+i*4:], math.Float32bits(s))
	}

	buf, err := NewWAV().Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if buf.Data[0][0] != 0.25 || buf.Data[0][1] != -0.5 {
		t.Errorf("unexpected samples: %v", buf.Data[0])
	}
}

func TestWAVDecodeErrors(t *testing.T) {
	valid, err := encode.EncodeWAV(testTone(10), 16)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}

	noData := append([]byte{}, valid[:36]...)
	binary.LittleEndian.PutUint32(noData[4:], 28)

	badFormat := append([]byte{}, valid...)
	binary.LittleEndian.PutUint16(badFormat[20:], 85)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("this is not a wav file at all")},
		{"missing data chunk", noData},
		{"unsupported format tag", badFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWAV().Decode(tt.data)
			if !errors.Is(err, audio.ErrDecodeFailure) {
				t.Errorf("expected ErrDecodeFailure, got %v", err)
			}
		})
	}
}
