// ABOUTME: Audio encoder package for encoding float PCM to byte formats
// ABOUTME: Provides Encoder interface and implementations for PCM and WAV
// Package encode provides audio encoders.
//
// Supports: raw PCM (16-bit and 24-bit) and RIFF/WAVE files.
//
// All encoders accept planar float buffers in [-1, 1]. Samples are
// quantized with round(s * max) and clamped, never wrapped, so the same
// buffer always yields the same bytes.
//
// Example:
//
//	wav, err := encode.EncodeWAV(buf, 16)
//	url := encode.DataURL(wav)
package encode
