// ABOUTME: Per-track audio graph and the render callback feeding the output
// ABOUTME: Each track runs source -> gain -> pan -> band-pass -> analyser -> master
package playback

import (
	"sync"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/dsp"
)

// source plays a buffer from a frame position. An ended source keeps
// rendering silence until it is stopped.
type source struct {
	buf *audio.Buffer
	pos int
}

// frame returns the left and right input at the current position and advances
func (s *source) frame() (l, r float64, ok bool) {
	if s.pos >= s.buf.Frames() {
		return 0, 0, false
	}
	l = float64(s.buf.Data[0][s.pos])
	r = l
	if len(s.buf.Data) > 1 {
		r = float64(s.buf.Data[1][s.pos])
	}
	s.pos++
	return l, r, true
}

// TrackNode holds the persistent nodes of one track. Nodes live from
// SetupTracks until the next SetupTracks or Dispose; only the source
// changes across play, pause and seek.
type TrackNode struct {
	ID              string
	Name            string
	FilterFrequency float64

	level  float64 // explicit volume
	gain   float64 // audible gain after mute and solo
	pan    float64
	muted  bool
	soloed bool

	filters  [2]*dsp.Biquad
	analyser *dsp.Analyser
	source   *source
	tap      []float64
}

func newTrackNode(id, name string, level, filterFrequency float64, sampleRate int) *TrackNode {
	return &TrackNode{
		ID:              id,
		Name:            name,
		FilterFrequency: filterFrequency,
		level:           level,
		gain:            level,
		filters: [2]*dsp.Biquad{
			dsp.NewBandPass(filterFrequency, dsp.DefaultQ, sampleRate),
			dsp.NewBandPass(filterFrequency, dsp.DefaultQ, sampleRate),
		},
		analyser: dsp.NewAnalyser(dsp.DefaultFFTSize),
	}
}

// graph is the render callback shared with the output. The engine
// mutates tracks only while holding mu.
type graph struct {
	mu       sync.Mutex
	channels int
	tracks   []*TrackNode
	master   float64
}

func newGraph(channels int) *graph {
	return &graph{channels: channels, master: 1}
}

// Render mixes every sounding track into buf
func (g *graph) Render(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	frames := len(buf) / g.channels
	for _, t := range g.tracks {
		if cap(t.tap) < frames {
			t.tap = make([]float64, frames)
		}
		tap := t.tap[:frames]

		// A stopped track feeds silence so the analyser drains
		if t.source == nil {
			clear(tap)
			t.analyser.Write(tap)
			continue
		}

		for f := 0; f < frames; f++ {
			l, r, ok := t.source.frame()
			if !ok {
				tap[f] = 0
				continue
			}

			l *= t.gain
			r *= t.gain

			if g.channels == 1 {
				m := t.filters[0].Process((l + r) / 2)
				tap[f] = m
				buf[f] += float32(m * g.master)
				continue
			}

			if t.source.buf.Channels() == 1 {
				gl, gr := dsp.PanGains(t.pan)
				l, r = l*gl, l*gr
			} else {
				l, r = dsp.PanStereo(t.pan, l, r)
			}

			l = t.filters[0].Process(l)
			r = t.filters[1].Process(r)
			tap[f] = (l + r) / 2

			buf[f*g.channels] += float32(l * g.master)
			buf[f*g.channels+1] += float32(r * g.master)
		}

		t.analyser.Write(tap)
	}
}

// setTracks replaces the track list
func (g *graph) setTracks(tracks []*TrackNode) {
	g.mu.Lock()
	g.tracks = tracks
	g.mu.Unlock()
}

// start swaps fresh sources into every track at once
func (g *graph) start(sources []*source) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, t := range g.tracks {
		t.source = sources[i]
	}
}

// stopAll drops every source. Stopping a silent track is a no-op.
func (g *graph) stopAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, t := range g.tracks {
		t.source = nil
	}
}

// sounding reports whether any track holds a source
func (g *graph) sounding() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, t := range g.tracks {
		if t.source != nil {
			return true
		}
	}
	return false
}

// update runs fn on the tracks under the graph lock
func (g *graph) update(fn func(tracks []*TrackNode)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.tracks)
}

// applyGains recomputes audible gains from level, mute and solo.
// Any solo forces soloed tracks to full gain and silences the rest.
func applyGains(tracks []*TrackNode) {
	anySolo := false
	for _, t := range tracks {
		if t.soloed {
			anySolo = true
			break
		}
	}

	for _, t := range tracks {
		switch {
		case anySolo && t.soloed:
			t.gain = 1
		case anySolo:
			t.gain = 0
		case t.muted:
			t.gain = 0
		default:
			t.gain = t.level
		}
	}
}
