// ABOUTME: Audio output interface tests
// ABOUTME: Verifies Output implementations and the offline clock
package output

import (
	"context"
	"errors"
	"testing"
)

func TestImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
	var _ Output = (*Offline)(nil)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateSuspended, "suspended"},
		{StateRunning, "running"},
		{StateClosed, "closed"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestOfflineClock(t *testing.T) {
	out := NewOffline()
	if err := out.Open(1000, 2); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	calls := 0
	out.SetRenderer(RendererFunc(func(buf []float32) {
		calls++
		for i := range buf {
			buf[i] = 0.5
		}
	}))

	// Suspended outputs do not move
	if got := out.Advance(1); got != nil {
		t.Error("expected no audio while suspended")
	}
	if out.CurrentTime() != 0 {
		t.Errorf("expected time 0, got %f", out.CurrentTime())
	}

	if err := out.Resume(context.Background()); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}

	audio := out.Advance(0.5)
	if len(audio) != 1000 {
		t.Fatalf("expected 1000 samples, got %d", len(audio))
	}
	if audio[999] != 0.5 {
		t.Error("expected renderer output")
	}
	if calls != 4 {
		t.Errorf("expected 4 render quanta, got %d", calls)
	}
	if out.CurrentTime() != 0.5 {
		t.Errorf("expected time 0.5, got %f", out.CurrentTime())
	}

	if err := out.Suspend(); err != nil {
		t.Fatalf("Suspend() failed: %v", err)
	}
	out.Advance(1)
	if out.CurrentTime() != 0.5 {
		t.Errorf("expected clock to hold at 0.5, got %f", out.CurrentTime())
	}
}

func TestOfflineResumeFailures(t *testing.T) {
	out := NewOffline()
	if err := out.Resume(context.Background()); err == nil {
		t.Error("expected error resuming an unopened output")
	}

	if err := out.Open(44100, 2); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	boom := errors.New("device lost")
	out.FailNextResume(boom)
	if err := out.Resume(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if out.State() != StateSuspended {
		t.Errorf("expected suspended after failed resume, got %s", out.State())
	}
	if err := out.Resume(context.Background()); err != nil {
		t.Errorf("expected second resume to succeed, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := out.Resume(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if err := out.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := out.Resume(context.Background()); err == nil {
		t.Error("expected error resuming a closed output")
	}
}

func TestOfflineNilRendererIsSilent(t *testing.T) {
	out := NewOffline()
	if err := out.Open(100, 1); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := out.Resume(context.Background()); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}

	for _, s := range out.Advance(1) {
		if s != 0 {
			t.Fatal("expected silence without a renderer")
		}
	}
}
