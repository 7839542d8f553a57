// ABOUTME: WAV container encoder
// ABOUTME: Writes canonical 44-byte RIFF/WAVE headers around PCM payloads
package encode

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

const (
	// HeaderSize is the size of the canonical RIFF/WAVE header
	HeaderSize = 44

	wavFormatPCM = 1
)

// WAVEncoder encodes buffers as RIFF/WAVE files
type WAVEncoder struct {
	bitDepth int
}

// NewWAV creates a new WAV encoder
func NewWAV(format audio.Format) (Encoder, error) {
	if format.Codec != "wav" {
		return nil, fmt.Errorf("invalid codec for WAV encoder: %s", format.Codec)
	}

	if err := checkBitDepth(format.BitDepth); err != nil {
		return nil, err
	}

	return &WAVEncoder{bitDepth: format.BitDepth}, nil
}

// Encode produces a complete WAV file. Output depends only on the buffer.
func (e *WAVEncoder) Encode(buf *audio.Buffer) ([]byte, error) {
	return EncodeWAV(buf, e.bitDepth)
}

// Close releases resources
func (e *WAVEncoder) Close() error {
	return nil
}

// EncodeWAV writes buf as a WAV file with the given bit depth
func EncodeWAV(buf *audio.Buffer, bitDepth int) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := checkBitDepth(bitDepth); err != nil {
		return nil, err
	}

	dataSize := buf.Frames() * buf.Channels() * bitDepth / 8
	if err := checkDataSize(dataSize); err != nil {
		return nil, err
	}

	payload := interleavePCM(buf, bitDepth)

	// RIFF chunks are word aligned; the declared sizes exclude the pad byte
	pad := dataSize % 2

	out := make([]byte, HeaderSize+dataSize+pad)
	writeHeader(out, buf.SampleRate, buf.Channels(), bitDepth, dataSize)
	copy(out[HeaderSize:], payload)

	return out, nil
}

// checkDataSize rejects payloads the 32-bit RIFF size fields cannot describe
func checkDataSize(dataSize int) error {
	if uint64(dataSize) > math.MaxUint32-36 {
		return fmt.Errorf("%w: %d bytes of audio exceed the WAV size limit", audio.ErrInvalidInput, dataSize)
	}
	return nil
}

// DataURL wraps a WAV file as a base64 data URL
func DataURL(wav []byte) string {
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav)
}

func writeHeader(out []byte, sampleRate, channels, bitDepth, dataSize int) {
	blockAlign := channels * bitDepth / 8
	byteRate := sampleRate * blockAlign

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(bitDepth))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))
}
