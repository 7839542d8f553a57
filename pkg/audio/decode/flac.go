// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes complete FLAC streams to float buffers using mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC() Decoder {
	return &FLACDecoder{}
}

// Decode converts a FLAC stream to a float buffer
func (d *FLACDecoder) Decode(data []byte) (*audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open flac stream: %v", audio.ErrDecodeFailure, err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bits := int(stream.Info.BitsPerSample)
	sampleRate := int(stream.Info.SampleRate)
	if channels == 0 || sampleRate == 0 || bits == 0 {
		return nil, fmt.Errorf("%w: invalid flac stream info", audio.ErrDecodeFailure)
	}

	buf := &audio.Buffer{SampleRate: sampleRate, Data: make([][]float32, channels)}
	// NSamples comes from the header; the payload cannot hold more than
	// one sample per bits of input
	capacity := min(stream.Info.NSamples, uint64(len(data))*8/uint64(bits))
	for ch := range buf.Data {
		buf.Data[ch] = make([]float32, 0, capacity)
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: flac frame error: %v", audio.ErrDecodeFailure, err)
		}

		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				buf.Data[ch] = append(buf.Data[ch], intToFloat(s, bits))
			}
		}
	}

	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: flac stream has no audio frames", audio.ErrDecodeFailure)
	}

	return buf, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
