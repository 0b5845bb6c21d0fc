package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recordingPass struct {
	mu      sync.Mutex
	windows [][2]time.Time
}

func (p *recordingPass) RunTick(_ context.Context, prev, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.windows = append(p.windows, [2]time.Time{prev, now})
}

func (p *recordingPass) getWindows() [][2]time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([][2]time.Time, len(p.windows))
	copy(cp, p.windows)
	return cp
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunTicksAndStops(t *testing.T) {
	pass := &recordingPass{}
	s := New(pass, testLogger())
	s.SetTickInterval(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(90 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	windows := pass.getWindows()
	if len(windows) < 3 {
		t.Fatalf("expected at least 3 passes, got %d", len(windows))
	}

	// Windows tile without gaps: each pass starts where the previous ended.
	for i := 1; i < len(windows); i++ {
		if !windows[i][0].Equal(windows[i-1][1]) {
			t.Errorf("window %d starts at %v, previous ended at %v", i, windows[i][0], windows[i-1][1])
		}
	}
}

func TestFirstPassCoversOneInterval(t *testing.T) {
	pass := &recordingPass{}
	s := New(pass, testLogger())
	s.SetTickInterval(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	windows := pass.getWindows()
	if len(windows) == 0 {
		t.Fatal("expected an immediate first pass")
	}
	span := windows[0][1].Sub(windows[0][0])
	if span < 40*time.Millisecond || span > 100*time.Millisecond {
		t.Errorf("first window spans %v, want about one interval", span)
	}
}
