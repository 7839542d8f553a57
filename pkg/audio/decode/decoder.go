// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio decoders
package decode

import "github.com/Resonate-Protocol/chorus-go/pkg/audio"

// Decoder decodes audio in various formats to float PCM buffers
type Decoder interface {
	// Decode converts encoded audio data to a PCM buffer
	Decode(data []byte) (*audio.Buffer, error)

	// Close releases decoder resources
	Close() error
}

// intToFloat scales a signed integer sample of the given width to [-1, 1]
func intToFloat(v int32, bits int) float32 {
	if bits == 16 {
		return audio.Int16ToFloat(int16(v))
	}
	max := float64(int64(1)<<(bits-1) - 1)
	return float32(float64(v) / max)
}
