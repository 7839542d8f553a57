// ABOUTME: Bubbletea model for the mixer TUI
// ABOUTME: Defines mixer state, key handling and rendering
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/chorus-go/pkg/playback"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// seekStep is how far left/right arrows move the playhead
	seekStep = 5.0

	// volumeStep is how much +/- change a track's volume
	volumeStep = 0.05

	// panStep is how much [/] move a track's pan
	panStep = 0.1

	refreshInterval = 100 * time.Millisecond
)

// Controller is the transport and mixer surface the TUI drives
type Controller interface {
	TogglePlay() error
	Stop() error
	SeekBy(delta float64) error
	SetVolume(id string, volume float64) error
	SetPan(id string, pan float64) error
	ToggleMute(id string) error
	ToggleSolo(id string) error
	Snapshot() playback.Snapshot
}

// Model represents the TUI state
type Model struct {
	ctrl  Controller
	title string

	// Engine
	snapshot playback.Snapshot
	selected int
	lastErr  string

	// Dimensions
	width  int
	height int
}

// StatusMsg replaces the engine snapshot
type StatusMsg struct {
	Snapshot playback.Snapshot
}

type tickMsg time.Time

// Init starts the refresh loop
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case tickMsg:
		if m.ctrl != nil {
			m.applyStatus(StatusMsg{Snapshot: m.ctrl.Snapshot()})
		}
		return m, tick()
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderTransport()
	s += m.renderTracks()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title and engine state
func (m Model) renderHeader() string {
	icon := "■"
	switch m.snapshot.State {
	case "playing":
		icon = "▶"
	case "paused":
		icon = "⏸"
	}

	return fmt.Sprintf(`┌─ Chorus Player ──────────────────────────────────────┐
│ Mix:    %-45s │
│ State:  %s %-43s │
├──────────────────────────────────────────────────────┤
`, truncate(m.title, 45), icon, m.snapshot.State)
}

// renderTransport renders the position bar
func (m Model) renderTransport() string {
	pos := 0
	if m.snapshot.Duration > 0 {
		pos = int(m.snapshot.CurrentTime * 1000 / m.snapshot.Duration)
	}

	return fmt.Sprintf("│ %s / %s [%s] │\n│%-54s│\n",
		formatTime(m.snapshot.CurrentTime), formatTime(m.snapshot.Duration),
		renderBar(pos, 1000, 36), "")
}

// renderTracks renders one row per track
func (m Model) renderTracks() string {
	if len(m.snapshot.Tracks) == 0 {
		return "│ No tracks                                            │\n"
	}

	s := ""
	for i, t := range m.snapshot.Tracks {
		cursor := " "
		if i == m.selected {
			cursor = ">"
		}

		flags := ""
		if t.Muted {
			flags += "M"
		} else {
			flags += "-"
		}
		if t.Soloed {
			flags += "S"
		} else {
			flags += "-"
		}

		s += fmt.Sprintf("│%s %-12s [%s] %3d%% %s %s [%s] │\n",
			cursor, truncate(t.Name, 12),
			renderBar(int(t.Volume*100), 100, 10), int(t.Volume*100),
			formatPan(t.Pan), flags,
			renderBar(int(t.Level*1000), 1000, 8))
	}

	if m.lastErr != "" {
		s += fmt.Sprintf("│ Error: %-45s │\n", truncate(m.lastErr, 45))
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ space:Play/Pause  s:Stop  ←/→:Seek  ↑/↓:Track  q:Quit│
│ +/-:Volume  [/]:Pan  m:Mute  o:Solo                  │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" || msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.ctrl == nil {
		return m, nil
	}

	var err error
	switch msg.String() {
	case " ":
		err = m.ctrl.TogglePlay()
	case "s":
		err = m.ctrl.Stop()
	case "left":
		err = m.ctrl.SeekBy(-seekStep)
	case "right":
		err = m.ctrl.SeekBy(seekStep)
	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < len(m.snapshot.Tracks)-1 {
			m.selected++
		}
	case "+", "=":
		if t, ok := m.selectedTrack(); ok {
			err = m.ctrl.SetVolume(t.ID, t.Volume+volumeStep)
		}
	case "-":
		if t, ok := m.selectedTrack(); ok {
			err = m.ctrl.SetVolume(t.ID, t.Volume-volumeStep)
		}
	case "[":
		if t, ok := m.selectedTrack(); ok {
			err = m.ctrl.SetPan(t.ID, t.Pan-panStep)
		}
	case "]":
		if t, ok := m.selectedTrack(); ok {
			err = m.ctrl.SetPan(t.ID, t.Pan+panStep)
		}
	case "m":
		if t, ok := m.selectedTrack(); ok {
			err = m.ctrl.ToggleMute(t.ID)
		}
	case "o":
		if t, ok := m.selectedTrack(); ok {
			err = m.ctrl.ToggleSolo(t.ID)
		}
	default:
		return m, nil
	}

	if err != nil {
		m.lastErr = err.Error()
	} else {
		m.lastErr = ""
	}
	m.applyStatus(StatusMsg{Snapshot: m.ctrl.Snapshot()})

	return m, nil
}

func (m Model) selectedTrack() (playback.TrackState, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Tracks) {
		return playback.TrackState{}, false
	}
	return m.snapshot.Tracks[m.selected], true
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	m.snapshot = msg.Snapshot
	if m.selected >= len(m.snapshot.Tracks) {
		m.selected = max(len(m.snapshot.Tracks)-1, 0)
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func formatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func formatPan(pan float64) string {
	switch {
	case pan < -0.005:
		return fmt.Sprintf("L%02d", min(int(-pan*100+0.5), 99))
	case pan > 0.005:
		return fmt.Sprintf("R%02d", min(int(pan*100+0.5), 99))
	default:
		return " C "
	}
}
