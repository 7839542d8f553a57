// ABOUTME: Playback engine states and observable snapshots
// ABOUTME: Transport state machine values reported to callers and UIs
package playback

// State is the transport state of an engine
type State int

const (
	StateUninitialized State = iota
	StateIdle
	StatePlaying
	StatePaused
	StateDisposed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// TrackState describes one track's controls
type TrackState struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Volume          float64 `json:"volume"`
	Gain            float64 `json:"gain"`
	Pan             float64 `json:"pan"`
	Muted           bool    `json:"muted"`
	Soloed          bool    `json:"soloed"`
	FilterFrequency float64 `json:"filterFrequency"`
	Level           float64 `json:"level"`
}

// Snapshot is the engine state at one instant
type Snapshot struct {
	State       string       `json:"state"`
	CurrentTime float64      `json:"currentTime"`
	Duration    float64      `json:"duration"`
	Tracks      []TrackState `json:"tracks"`
}
