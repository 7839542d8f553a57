// ABOUTME: Per-note ADSR envelope shaped by calmness
// ABOUTME: Calmer voices get shorter ramps and a higher sustain plateau
package render

// envelope describes ramps as fractions of the note length
type envelope struct {
	attack  float64
	decay   float64
	sustain float64 // level held between decay and release
	release float64
}

// newEnvelope derives the note shape from calmness in [0, 1]
func newEnvelope(calm float64) envelope {
	shrink := 1 - calm*0.5
	return envelope{
		attack:  0.1 * shrink,
		decay:   0.1 * shrink,
		sustain: 0.8 + 0.2*calm,
		release: 0.2 * shrink,
	}
}

// at returns the amplitude at position u in [0, 1) of the note
func (e envelope) at(u float64) float64 {
	switch {
	case u < e.attack:
		return u / e.attack
	case u < e.attack+e.decay:
		return 1 - (1-e.sustain)*(u-e.attack)/e.decay
	case u < 1-e.release:
		return e.sustain
	default:
		return e.sustain * (1 - u) / e.release
	}
}
