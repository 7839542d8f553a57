// ABOUTME: Deterministic melody generation
// ABOUTME: Picks scale degrees with a small seeded LCG so output never depends on global state
package render

import (
	"fmt"
	"hash/fnv"

	"github.com/Resonate-Protocol/chorus-go/pkg/voice"
)

// MajorScale holds semitone offsets of the major scale plus the octave
var MajorScale = []int{0, 2, 4, 5, 7, 9, 11, 12}

// MinorScale holds semitone offsets of the natural minor scale plus the octave
var MinorScale = []int{0, 2, 3, 5, 7, 8, 10, 12}

const lcgModulus = 233280

// lcg is the classic 9301/49297/233280 generator
type lcg struct {
	state int64
}

func newLCG(seed int64) *lcg {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &lcg{state: s}
}

// next returns a value in [0, 1)
func (g *lcg) next() float64 {
	g.state = (g.state*9301 + 49297) % lcgModulus
	return float64(g.state) / lcgModulus
}

// intn returns a value in [0, n)
func (g *lcg) intn(n int) int {
	return int(g.next() * float64(n))
}

// melody picks count scale offsets
func melody(scale []int, count int, g *lcg) []int {
	notes := make([]int, count)
	for i := range notes {
		notes[i] = scale[g.intn(len(scale))]
	}
	return notes
}

// voiceSeed derives a melody seed from the sound-shaping parameters of v,
// mixed with the caller's seed when one is given
func voiceSeed(v voice.Descriptor, seed *int64) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%g|%g|%g|%g", v.VocalRange, v.Waveform, v.Mood.Happy, v.Mood.Calm, v.Mood.Bright, v.Gain)
	s := int64(h.Sum64() >> 1)
	if seed != nil {
		s ^= *seed
	}
	return s
}
