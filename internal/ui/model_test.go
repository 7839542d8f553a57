// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests key dispatch, status updates and the engine adapter
package ui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/output"
	"github.com/Resonate-Protocol/chorus-go/pkg/playback"
	"github.com/Resonate-Protocol/chorus-go/pkg/voice"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeController struct {
	calls    []string
	snapshot playback.Snapshot
	err      error
}

func (f *fakeController) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeController) TogglePlay() error { return f.record("toggle") }
func (f *fakeController) Stop() error       { return f.record("stop") }
func (f *fakeController) SeekBy(delta float64) error {
	return f.record("seek " + formatTime(math.Abs(delta)))
}
func (f *fakeController) SetVolume(id string, v float64) error { return f.record("volume " + id) }
func (f *fakeController) SetPan(id string, p float64) error    { return f.record("pan " + id) }
func (f *fakeController) ToggleMute(id string) error           { return f.record("mute " + id) }
func (f *fakeController) ToggleSolo(id string) error           { return f.record("solo " + id) }
func (f *fakeController) Snapshot() playback.Snapshot          { return f.snapshot }

func twoTrackSnapshot() playback.Snapshot {
	return playback.Snapshot{
		State:    "idle",
		Duration: 8,
		Tracks: []playback.TrackState{
			{ID: "a", Name: "Alto", Volume: 0.7},
			{ID: "b", Name: "Bass", Volume: 0.7},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, "demo")

	if model.snapshot.State != "idle" {
		t.Errorf("expected idle state, got %s", model.snapshot.State)
	}
	if model.selected != 0 {
		t.Errorf("expected first track selected, got %d", model.selected)
	}
	if model.title != "demo" {
		t.Errorf("expected title 'demo', got '%s'", model.title)
	}
}

func TestKeyDispatch(t *testing.T) {
	tests := []struct {
		keys     []string
		expected []string
	}{
		{[]string{" "}, []string{"toggle"}},
		{[]string{"s"}, []string{"stop"}},
		{[]string{"left", "right"}, []string{"seek 0:05", "seek 0:05"}},
		{[]string{"+", "-"}, []string{"volume a", "volume a"}},
		{[]string{"[", "]"}, []string{"pan a", "pan a"}},
		{[]string{"m"}, []string{"mute a"}},
		{[]string{"down", "o"}, []string{"solo b"}},
		{[]string{"down", "down", "m"}, []string{"mute b"}},
		{[]string{"down", "up", "up", "o"}, []string{"solo a"}},
		{[]string{"x"}, nil},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			ctrl := &fakeController{snapshot: twoTrackSnapshot()}
			press(NewModel(ctrl, "demo"), tt.keys...)

			if strings.Join(ctrl.calls, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("expected calls %v, got %v", tt.expected, ctrl.calls)
			}
		})
	}
}

func TestQuitKey(t *testing.T) {
	model := NewModel(&fakeController{}, "demo")

	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestControllerErrorShown(t *testing.T) {
	ctrl := &fakeController{snapshot: twoTrackSnapshot(), err: errors.New("device busy")}
	model := press(NewModel(ctrl, "demo"), " ")

	if model.lastErr != "device busy" {
		t.Errorf("expected error to be shown, got '%s'", model.lastErr)
	}

	ctrl.err = nil
	model = press(model, "s")
	if model.lastErr != "" {
		t.Errorf("expected error to clear, got '%s'", model.lastErr)
	}
}

func TestStatusMsgClampsSelection(t *testing.T) {
	ctrl := &fakeController{snapshot: twoTrackSnapshot()}
	model := press(NewModel(ctrl, "demo"), "down")

	if model.selected != 1 {
		t.Fatalf("expected selection 1, got %d", model.selected)
	}

	next, _ := model.Update(StatusMsg{Snapshot: playback.Snapshot{
		State:  "idle",
		Tracks: []playback.TrackState{{ID: "a", Name: "Alto"}},
	}})
	model = next.(Model)

	if model.selected != 0 {
		t.Errorf("expected selection clamped to 0, got %d", model.selected)
	}
}

func TestViewRendersTracks(t *testing.T) {
	snap := twoTrackSnapshot()
	snap.State = "playing"
	snap.CurrentTime = 65
	snap.Duration = 130
	snap.Tracks[1].Muted = true
	snap.Tracks[1].Soloed = true

	model := NewModel(&fakeController{snapshot: snap}, "demo")
	next, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := next.(Model).View()

	for _, want := range []string{"Chorus Player", "playing", "1:05 / 2:10", "Alto", "Bass", "MS", " 70%"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestViewBeforeResize(t *testing.T) {
	if view := NewModel(nil, "demo").View(); view != "Loading..." {
		t.Errorf("expected loading view, got %q", view)
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
		{"abcd", 4, "abcd"},
		{"abcde", 4, "a..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q",
				tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestFormatPan(t *testing.T) {
	tests := []struct {
		pan      float64
		expected string
	}{
		{0, " C "},
		{-1, "L99"},
		{-0.25, "L25"},
		{0.5, "R50"},
		{1, "R99"},
	}

	for _, tt := range tests {
		if got := formatPan(tt.pan); got != tt.expected {
			t.Errorf("formatPan(%f) = %q, expected %q", tt.pan, got, tt.expected)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if bar := renderBar(5, 10, 4); bar != "██░░" {
		t.Errorf("expected half bar, got %q", bar)
	}
	if bar := renderBar(5, 0, 3); bar != "░░░" {
		t.Errorf("expected empty bar for zero max, got %q", bar)
	}
}

func TestEngineController(t *testing.T) {
	out := output.NewOffline()
	eng := playback.New(playback.Config{NewOutput: func(int, int) (output.Output, error) {
		return out, nil
	}})
	if err := eng.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	buf := audio.NewBuffer(44100, 2, 44100*10)
	v := voice.New("Alto", voice.Alto)
	if err := eng.SetupTracks(buf, []voice.Descriptor{v}); err != nil {
		t.Fatalf("SetupTracks() failed: %v", err)
	}

	ctrl := NewEngineController(eng, buf)

	if err := ctrl.TogglePlay(); err != nil {
		t.Fatalf("TogglePlay() failed: %v", err)
	}
	if eng.State() != playback.StatePlaying {
		t.Errorf("expected playing, got %s", eng.State())
	}

	out.Advance(1)
	if err := ctrl.SeekBy(seekStep); err != nil {
		t.Fatalf("SeekBy() failed: %v", err)
	}
	if now, _ := eng.CurrentTime(); math.Abs(now-6) > 1e-6 {
		t.Errorf("expected 6s after seek, got %f", now)
	}

	if err := ctrl.TogglePlay(); err != nil {
		t.Fatalf("TogglePlay() failed: %v", err)
	}
	if eng.State() != playback.StatePaused {
		t.Errorf("expected paused, got %s", eng.State())
	}

	if err := ctrl.SetVolume(v.ID, 0.2); err != nil {
		t.Fatalf("SetVolume() failed: %v", err)
	}
	if err := ctrl.ToggleMute(v.ID); err != nil {
		t.Fatalf("ToggleMute() failed: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.Tracks[0].Volume != 0.2 || !snap.Tracks[0].Muted {
		t.Errorf("expected volume 0.2 and muted, got %+v", snap.Tracks[0])
	}

	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := ctrl.SetPan("missing", 0); !errors.Is(err, audio.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
