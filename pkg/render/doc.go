// ABOUTME: Offline renderer package
// ABOUTME: Documents voice synthesis, mixing and the formant singing preset
// Package render synthesizes voice descriptors into PCM.
//
// Each enabled voice sings a melody of half-second notes picked from the
// major scale. Notes tile the whole duration. Melodies are derived from
// the voice parameters, or from Options.Seed when one is given, so the
// same input always renders the same samples.
//
// Voice shaping:
//   - happiness scales energy (0.3 + 0.5*happy)
//   - calmness shortens the note ramps and raises the sustain plateau
//   - brightness sets the depth of a 5 Hz tremolo
//
// Tracks are summed into every output channel. The sum is scaled by
// 1/peak only when it would clip; quieter mixes are left untouched so the
// relative loudness set by each voice's gain survives.
//
// Example:
//
//	res, err := render.Render(voices, render.Options{Duration: 8})
//	wav, err := encode.EncodeWAV(res.Mixed, 16)
package render
