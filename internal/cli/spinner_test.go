package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rendering 4 views...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering 4 views...") {
		t.Errorf("output = %q, want the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output = %q, want the line cleared at the end", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
	s.Stop()
}

func TestSpinnerEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := startSpinner(ctx, &buf, "Publishing...")
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after its context ended")
	}
	if !s.Cancelled() {
		t.Error("Cancelled = false after the parent context ended")
	}
}

func TestSpinnerFail(t *testing.T) {
	s := startSpinner(context.Background(), &bytes.Buffer{}, "Exporting...")
	s.Fail("Export failed")
	s.Stop()
}
