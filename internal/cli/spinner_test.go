package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureSpinner(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	old := spinnerOut
	spinnerOut = buf
	t.Cleanup(func() { spinnerOut = old })
	return buf
}

func TestSpinnerRendersMessage(t *testing.T) {
	buf := captureSpinner(t)

	s := newSpinner("Loading fonts...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Exporting PDF...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := buf.String()
	if !strings.Contains(got, "Loading fonts...") || !strings.Contains(got, "Exporting PDF...") {
		t.Errorf("spinner output = %q, want both messages", got)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	captureSpinner(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Generating moodboard...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	captureSpinner(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Waiting...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureSpinner(t)

	s := newSpinner("Stopping...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessages(t *testing.T) {
	captureSpinner(t)
	buf := captureOut(t)

	s := newSpinner("Exporting...")
	s.Start()
	s.StopWithSuccess("Moodboard saved")

	s = newSpinner("Exporting...")
	s.Start()
	s.StopWithError("Export failed")

	got := buf.String()
	if !strings.Contains(got, "Moodboard saved") || !strings.Contains(got, "Export failed") {
		t.Errorf("output = %q", got)
	}
}
