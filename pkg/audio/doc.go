// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types, error kinds and sample conversion functions
// Package audio provides fundamental audio types and utilities for the chorus engine.
//
// This package defines core types used throughout the library:
//   - Format: Describes an encoded stream (codec, sample rate, channels, bit depth)
//   - Buffer: Planar float32 PCM audio, one slice per channel
//
// It also provides sample conversions used by the codecs:
//   - float ↔ 16-bit with round-and-clamp quantization
//   - float ↔ 24-bit and packed 24-bit byte helpers
//
// Errors returned anywhere in the module wrap one of ErrInvalidInput,
// ErrNotInitialized, ErrDecodeFailure or ErrDisposed.
//
// Example:
//
//	buf := audio.NewBuffer(44100, 2, 44100)
//	buf.Data[0][0] = 0.5
//	s := audio.FloatToInt16(buf.Data[0][0]) // 16384
package audio
