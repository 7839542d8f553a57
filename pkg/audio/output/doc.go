// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Output interface with oto and offline implementations
// Package output provides audio contexts for playback.
//
// An Output owns a clock and pulls interleaved float frames from a
// Renderer whenever it needs more audio. Two implementations exist:
//   - Oto plays through the sound card using ebitengine/oto
//   - Offline renders on demand when Advance is called, for tests and bounces
//
// oto permits one device per process, so every Oto output shares it while
// keeping its own player, clock and lifecycle.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(44100, 2)
//	out.SetRenderer(graph)
//	err = out.Resume(ctx)
//	t := out.CurrentTime()
package output
