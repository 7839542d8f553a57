// ABOUTME: PCM audio decoder
// ABOUTME: Decodes interleaved 16-bit and 24-bit PCM bytes to float buffers
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

// PCMDecoder decodes raw PCM audio of a known format
type PCMDecoder struct {
	sampleRate int
	channels   int
	bitDepth   int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid PCM format: %dHz %d channels", format.SampleRate, format.Channels)
	}

	return &PCMDecoder{
		sampleRate: format.SampleRate,
		channels:   format.Channels,
		bitDepth:   format.BitDepth,
	}, nil
}

// Decode converts PCM bytes to a float buffer
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	return decodePCM(data, d.sampleRate, d.channels, d.bitDepth, false)
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// decodePCM handles integer PCM of 8 to 32 bits and 32-bit IEEE float
func decodePCM(data []byte, sampleRate, channels, bitDepth int, float bool) (*audio.Buffer, error) {
	bytesPerSample := bitDepth / 8
	if bytesPerSample == 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: invalid sample layout", audio.ErrDecodeFailure)
	}
	frameSize := bytesPerSample * channels
	frames := len(data) / frameSize

	buf := audio.NewBuffer(sampleRate, channels, frames)
	pos := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			var s float32
			switch {
			case float && bitDepth == 32:
				s = float32frombits(binary.LittleEndian.Uint32(data[pos:]))
			case bitDepth == 8:
				s = float32(int(data[pos])-128) / 127
			case bitDepth == 16:
				s = audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(data[pos:])))
			case bitDepth == 24:
				s = intToFloat(audio.SampleFrom24Bit([3]byte{data[pos], data[pos+1], data[pos+2]}), 24)
			case bitDepth == 32:
				s = intToFloat(int32(binary.LittleEndian.Uint32(data[pos:])), 32)
			default:
				return nil, fmt.Errorf("%w: unsupported bit depth %d", audio.ErrDecodeFailure, bitDepth)
			}
			buf.Data[ch][i] = s
			pos += bytesPerSample
		}
	}
	return buf, nil
}
