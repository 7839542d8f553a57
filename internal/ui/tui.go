// ABOUTME: TUI initialization and engine control adapter
// ABOUTME: Wraps the bubbletea program and maps keys onto a playback engine
package ui

import (
	"context"
	"time"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/playback"
	tea "github.com/charmbracelet/bubbletea"
)

// controlTimeout bounds transport calls that wait on the audio device
const controlTimeout = 5 * time.Second

// EngineController drives a playback engine bound to one buffer
type EngineController struct {
	engine *playback.Engine
	buffer *audio.Buffer
}

// NewEngineController creates a controller for eng playing buf
func NewEngineController(eng *playback.Engine, buf *audio.Buffer) *EngineController {
	return &EngineController{engine: eng, buffer: buf}
}

// TogglePlay pauses while playing, otherwise plays from the stored position
func (c *EngineController) TogglePlay() error {
	if c.engine.State() == playback.StatePlaying {
		return c.engine.Pause()
	}

	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()
	return c.engine.Play(ctx, c.buffer)
}

// Stop stops playback
func (c *EngineController) Stop() error {
	return c.engine.Stop()
}

// SeekBy moves the playhead relative to the current position
func (c *EngineController) SeekBy(delta float64) error {
	now, err := c.engine.CurrentTime()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()
	return c.engine.Seek(ctx, c.buffer, now+delta)
}

// SetVolume sets a track's volume
func (c *EngineController) SetVolume(id string, volume float64) error {
	return c.engine.SetTrackVolume(id, volume)
}

// SetPan sets a track's pan
func (c *EngineController) SetPan(id string, pan float64) error {
	return c.engine.SetTrackPan(id, pan)
}

// ToggleMute flips a track's mute flag
func (c *EngineController) ToggleMute(id string) error {
	_, err := c.engine.ToggleMute(id)
	return err
}

// ToggleSolo flips a track's solo flag
func (c *EngineController) ToggleSolo(id string) error {
	_, err := c.engine.ToggleSolo(id)
	return err
}

// Snapshot returns the engine state
func (c *EngineController) Snapshot() playback.Snapshot {
	return c.engine.GetState()
}

// NewModel creates a new TUI model
func NewModel(ctrl Controller, title string) Model {
	m := Model{
		ctrl:  ctrl,
		title: title,
		snapshot: playback.Snapshot{
			State: playback.StateIdle.String(),
		},
	}
	if ctrl != nil {
		m.snapshot = ctrl.Snapshot()
	}
	return m
}

// Run creates the TUI program
func Run(ctrl Controller, title string) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl, title), tea.WithAltScreen())
	return p, nil
}
