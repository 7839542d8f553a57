// ABOUTME: Live playback engine package
// ABOUTME: Transport controls and a per-track mixing graph over an audio output
// Package playback plays a decoded mix through one graph per voice.
//
// Each track runs the shared buffer through gain, stereo pan, a band-pass
// filter centered on the voice's range and an analysis tap before the
// master bus. Elapsed time is measured against the output clock, so it
// survives pause, seek and resume.
//
// Example:
//
//	eng := playback.New(playback.Config{})
//	err := eng.Initialize(ctx)
//	buf, err := eng.LoadAudio(ctx, wav)
//	err = eng.SetupTracks(buf, voices)
//	err = eng.Play(ctx, buf)
//	now, err := eng.CurrentTime()
package playback
