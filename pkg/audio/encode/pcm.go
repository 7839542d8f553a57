// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float buffers to interleaved 16-bit or 24-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if err := checkBitDepth(format.BitDepth); err != nil {
		return nil, err
	}

	return &PCMEncoder{
		bitDepth: format.BitDepth,
	}, nil
}

// Encode converts the buffer to interleaved PCM bytes
func (e *PCMEncoder) Encode(buf *audio.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return interleavePCM(buf, e.bitDepth), nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

func checkBitDepth(bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: unsupported bit depth: %d (supported: 16, 24)", audio.ErrInvalidInput, bitDepth)
	}
	return nil
}

// interleavePCM writes frames channel by channel in little-endian order
func interleavePCM(buf *audio.Buffer, bitDepth int) []byte {
	channels := buf.Channels()
	frames := buf.Frames()
	bytesPerSample := bitDepth / 8
	output := make([]byte, frames*channels*bytesPerSample)

	pos := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			s := buf.Data[ch][i]
			if bitDepth == 24 {
				b := audio.SampleTo24Bit(audio.FloatTo24Bit(s))
				output[pos] = b[0]
				output[pos+1] = b[1]
				output[pos+2] = b[2]
			} else {
				binary.LittleEndian.PutUint16(output[pos:], uint16(audio.FloatToInt16(s)))
			}
			pos += bytesPerSample
		}
	}
	return output
}
