// ABOUTME: Signal processing building blocks for the playback graph
// ABOUTME: Provides band-pass biquads, stereo panning and analyser snapshots
// Package dsp provides the per-track processing nodes used by playback
// and by the formant singing preset.
//
// Example:
//
//	filter := dsp.NewBandPass(800, dsp.DefaultQ, 44100)
//	y := filter.Process(x)
//
//	l, r := dsp.PanStereo(-0.5, left, right)
//
//	an := dsp.NewAnalyser(dsp.DefaultFFTSize)
//	an.Write(block)
//	bins := an.FrequencyData()
package dsp
