// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, float PCM buffers and sample conversions
package audio

import (
	"fmt"
	"math"
)

const (
	// 16-bit audio range constants
	Max16Bit = 32767
	Min16Bit = -32768

	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds planar float PCM audio, one slice per channel
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// NewBuffer allocates a silent buffer
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	return &Buffer{SampleRate: sampleRate, Data: data}
}

// Channels returns the channel count
func (b *Buffer) Channels() int {
	return len(b.Data)
}

// Frames returns the number of sample frames per channel
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Peak returns the largest absolute sample value across all channels
func (b *Buffer) Peak() float64 {
	peak := 0.0
	for _, ch := range b.Data {
		for _, s := range ch {
			if a := math.Abs(float64(s)); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// Validate checks that the buffer is usable for encoding or playback
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidInput)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, b.SampleRate)
	}
	if len(b.Data) == 0 {
		return fmt.Errorf("%w: buffer has no channels", ErrInvalidInput)
	}
	frames := len(b.Data[0])
	for ch, data := range b.Data {
		if len(data) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, expected %d", ErrInvalidInput, ch, len(data), frames)
		}
	}
	return nil
}

// Clone returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{SampleRate: b.SampleRate, Data: make([][]float32, len(b.Data))}
	for ch, data := range b.Data {
		out.Data[ch] = append([]float32(nil), data...)
	}
	return out
}

// Interleave returns the samples as a single interleaved slice
func (b *Buffer) Interleave() []float32 {
	channels := b.Channels()
	frames := b.Frames()
	out := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = b.Data[ch][i]
		}
	}
	return out
}

// Deinterleave builds a planar buffer from interleaved samples
func Deinterleave(samples []float32, sampleRate, channels int) *Buffer {
	frames := len(samples) / channels
	buf := NewBuffer(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			buf.Data[ch][i] = samples[i*channels+ch]
		}
	}
	return buf
}

// FloatToInt16 quantizes a float sample with rounding and clamping
func FloatToInt16(sample float32) int16 {
	v := math.Round(float64(sample) * Max16Bit)
	if v > Max16Bit {
		v = Max16Bit
	} else if v < Min16Bit {
		v = Min16Bit
	}
	return int16(v)
}

// Int16ToFloat converts a 16-bit sample back to the float scale used by FloatToInt16
func Int16ToFloat(sample int16) float32 {
	return float32(float64(sample) / Max16Bit)
}

// FloatTo24Bit quantizes a float sample to the signed 24-bit range
func FloatTo24Bit(sample float32) int32 {
	v := math.Round(float64(sample) * Max24Bit)
	if v > Max24Bit {
		v = Max24Bit
	} else if v < Min24Bit {
		v = Min24Bit
	}
	return int32(v)
}

// Int24ToFloat converts a 24-bit sample to float
func Int24ToFloat(sample int32) float32 {
	return float32(float64(sample) / Max24Bit)
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
