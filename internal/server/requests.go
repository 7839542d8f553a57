// ABOUTME: Request types for control socket commands
// ABOUTME: Validation tags bound the transport and mixer parameters
package server

// EmptyRequest is the request body for commands without parameters
type EmptyRequest struct{}

// SeekRequest is the request body for seek. Out-of-range times are clamped by the engine.
type SeekRequest struct {
	Time *float64 `json:"time" validate:"required"`
}

// TrackRequest is the request body for mute and solo
type TrackRequest struct {
	TrackID string `json:"track_id" validate:"required"`
}

// VolumeRequest is the request body for volume
type VolumeRequest struct {
	TrackID string   `json:"track_id" validate:"required"`
	Volume  *float64 `json:"volume" validate:"required,gte=0,lte=1"`
}

// PanRequest is the request body for pan
type PanRequest struct {
	TrackID string   `json:"track_id" validate:"required"`
	Pan     *float64 `json:"pan" validate:"required,gte=-1,lte=1"`
}

// AnalyserRequest is the request body for analyser
type AnalyserRequest struct {
	TrackID string `json:"track_id" validate:"required"`
	Kind    string `json:"kind" validate:"required,oneof=frequency time"`
}
