// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes complete MP3 files to float buffers using go-mp3
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() Decoder {
	return &MP3Decoder{}
}

// Decode converts an MP3 file to a stereo float buffer
func (d *MP3Decoder) Decode(data []byte) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create mp3 decoder: %v", audio.ErrDecodeFailure, err)
	}

	// go-mp3 always yields 16-bit little-endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3 decode error: %v", audio.ErrDecodeFailure, err)
	}
	if len(pcm) < 4 {
		return nil, fmt.Errorf("%w: mp3 stream has no audio frames", audio.ErrDecodeFailure)
	}

	frames := len(pcm) / 4
	buf := audio.NewBuffer(decoder.SampleRate(), 2, frames)
	for i := 0; i < frames; i++ {
		buf.Data[0][i] = audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(pcm[i*4:])))
		buf.Data[1][i] = audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(pcm[i*4+2:])))
	}

	return buf, nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
