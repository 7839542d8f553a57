// ABOUTME: Audio decoder package for multiple container support
// ABOUTME: Provides Decoder interface and implementations for PCM, WAV, FLAC, MP3
// Package decode provides audio decoders for complete files.
//
// Supports: raw PCM (16-bit and 24-bit), WAV (integer and float), FLAC, MP3
//
// All decoders implement the Decoder interface and output planar float
// buffers. Malformed or unsupported input returns an error wrapping
// audio.ErrDecodeFailure. 16-bit samples decode as v/32767, so decoding a
// WAV written by the encode package and encoding it again yields the same
// bytes.
//
// Example:
//
//	buf, err := decode.Decode(wavBytes)
//	buf, err = decode.Load(ctx, "data:audio/wav;base64,...")
package decode
