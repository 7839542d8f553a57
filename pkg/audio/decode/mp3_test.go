// ABOUTME: Tests for MP3 decoder
// ABOUTME: Tests that malformed MP3 input reports a decode failure
package decode

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

func TestNewMP3(t *testing.T) {
	decoder := NewMP3()
	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
	if err := decoder.Close(); err != nil {
		t.Errorf("Close() unexpected error = %v", err)
	}
}

func TestMP3DecodeGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"id3 header only", []byte("ID3\x03\x00\x00\x00\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMP3().Decode(tt.data)
			if !errors.Is(err, audio.ErrDecodeFailure) {
				t.Errorf("expected ErrDecodeFailure, got %v", err)
			}
		})
	}
}
