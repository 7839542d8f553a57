// ABOUTME: Control socket command dispatch
// ABOUTME: Maps transport and mixer commands onto the playback engine
package server

import (
	"context"
	"fmt"
)

// dispatch routes a command to its handler
func (s *Server) dispatch(cmd WSCommand, send chan<- any) {
	switch cmd.Type {
	case "play":
		handleCommand(cmd, send, func(*EmptyRequest) (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
			defer cancel()
			return nil, s.engine.Play(ctx, s.session.Buffer)
		})
	case "resume":
		handleCommand(cmd, send, func(*EmptyRequest) (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
			defer cancel()
			return nil, s.engine.Resume(ctx, s.session.Buffer)
		})
	case "pause":
		handleCommand(cmd, send, func(*EmptyRequest) (any, error) {
			return nil, s.engine.Pause()
		})
	case "stop":
		handleCommand(cmd, send, func(*EmptyRequest) (any, error) {
			return nil, s.engine.Stop()
		})
	case "seek":
		handleCommand(cmd, send, func(req *SeekRequest) (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
			defer cancel()
			if err := s.engine.Seek(ctx, s.session.Buffer, *req.Time); err != nil {
				return nil, err
			}
			now, err := s.engine.CurrentTime()
			if err != nil {
				return nil, err
			}
			return map[string]float64{"time": now}, nil
		})
	case "volume":
		handleCommand(cmd, send, func(req *VolumeRequest) (any, error) {
			return nil, s.engine.SetTrackVolume(req.TrackID, *req.Volume)
		})
	case "pan":
		handleCommand(cmd, send, func(req *PanRequest) (any, error) {
			return nil, s.engine.SetTrackPan(req.TrackID, *req.Pan)
		})
	case "mute":
		handleCommand(cmd, send, func(req *TrackRequest) (any, error) {
			muted, err := s.engine.ToggleMute(req.TrackID)
			if err != nil {
				return nil, err
			}
			return map[string]bool{"muted": muted}, nil
		})
	case "solo":
		handleCommand(cmd, send, func(req *TrackRequest) (any, error) {
			soloed, err := s.engine.ToggleSolo(req.TrackID)
			if err != nil {
				return nil, err
			}
			return map[string]bool{"soloed": soloed}, nil
		})
	case "state":
		handleCommand(cmd, send, func(*EmptyRequest) (any, error) {
			return s.engine.GetState(), nil
		})
	case "analyser":
		handleCommand(cmd, send, func(req *AnalyserRequest) (any, error) {
			var data []uint8
			if req.Kind == "frequency" {
				data = s.engine.AnalyserData(req.TrackID)
			} else {
				data = s.engine.TimeDomainData(req.TrackID)
			}
			if data == nil {
				return nil, fmt.Errorf("unknown track %s", req.TrackID)
			}
			return map[string]any{"kind": req.Kind, "values": byteValues(data)}, nil
		})
	default:
		sendError(send, cmd.Type, fmt.Errorf("unknown command %q", cmd.Type))
	}
}

// byteValues widens bytes so they marshal as a JSON array, not base64
func byteValues(data []uint8) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return out
}
