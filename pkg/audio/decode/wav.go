// ABOUTME: WAV container decoder
// ABOUTME: Walks RIFF chunks and decodes integer or float PCM payloads
package decode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// WAVDecoder decodes RIFF/WAVE files
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() Decoder {
	return &WAVDecoder{}
}

type wavFormat struct {
	tag        uint16
	channels   int
	sampleRate int
	bitDepth   int
}

// Decode parses a complete WAV file
func (d *WAVDecoder) Decode(data []byte) (*audio.Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", audio.ErrDecodeFailure)
	}

	var format *wavFormat
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body+size > len(data) {
			// Truncated data chunks are common in streamed files; keep what is there
			if id == "data" {
				size = len(data) - body
			} else {
				return nil, fmt.Errorf("%w: chunk %q overruns file", audio.ErrDecodeFailure, id)
			}
		}

		switch id {
		case "fmt ":
			f, err := parseFmtChunk(data[body : body+size])
			if err != nil {
				return nil, err
			}
			format = f
		case "data":
			if format == nil {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", audio.ErrDecodeFailure)
			}
			return decodePCM(data[body:body+size], format.sampleRate, format.channels, format.bitDepth, format.tag == wavFormatFloat)
		}

		pos = body + size + size%2
	}

	return nil, fmt.Errorf("%w: no data chunk", audio.ErrDecodeFailure)
}

// Close releases resources
func (d *WAVDecoder) Close() error {
	return nil
}

func parseFmtChunk(b []byte) (*wavFormat, error) {
	if len(b) < 16 {
		return nil, fmt.Errorf("%w: fmt chunk too short", audio.ErrDecodeFailure)
	}

	f := &wavFormat{
		tag:        binary.LittleEndian.Uint16(b[0:2]),
		channels:   int(binary.LittleEndian.Uint16(b[2:4])),
		sampleRate: int(binary.LittleEndian.Uint32(b[4:8])),
		bitDepth:   int(binary.LittleEndian.Uint16(b[14:16])),
	}

	if f.tag == wavFormatExtensible {
		if len(b) < 26 {
			return nil, fmt.Errorf("%w: extensible fmt chunk too short", audio.ErrDecodeFailure)
		}
		// The first two bytes of the sub-format GUID carry the real tag
		f.tag = binary.LittleEndian.Uint16(b[24:26])
	}

	switch {
	case f.tag == wavFormatPCM && (f.bitDepth == 8 || f.bitDepth == 16 || f.bitDepth == 24 || f.bitDepth == 32):
	case f.tag == wavFormatFloat && f.bitDepth == 32:
	default:
		return nil, fmt.Errorf("%w: unsupported WAV format tag %d with %d bits", audio.ErrDecodeFailure, f.tag, f.bitDepth)
	}

	if f.channels <= 0 || f.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid WAV format %dHz %d channels", audio.ErrDecodeFailure, f.sampleRate, f.channels)
	}

	return f, nil
}

func float32frombits(b uint32) float32 {
	return math.Float32frombits(b)
}
