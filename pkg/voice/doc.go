// ABOUTME: Voice description package
// ABOUTME: Documents descriptors and the range and waveform tables
// Package voice describes the synthesis parameters of one track.
//
// Vocal ranges and waveforms are closed sets. Unknown values are accepted
// and fall back to documented defaults: an unknown range sings at 262 Hz
// and is filtered at 800 Hz, and an unknown waveform renders as a sine.
//
// Example:
//
//	v := voice.New("lead", voice.Soprano)
//	v.Mood.Bright = 0.9
//	if err := v.Validate(); err != nil {
//	    return err
//	}
package voice
