package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line until Stop is called or its parent context
// ends. The line is cleared either way.
type spinner struct {
	out    io.Writer
	msg    string
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// startSpinner draws msg with an animated frame on w.
func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	runCtx, cancel := context.WithCancel(ctx)
	s := &spinner{out: w, msg: msg, parent: ctx, cancel: cancel, done: make(chan struct{})}
	go s.run(runCtx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.msg))
		}
	}
}

// Stop clears the line and waits for the animation to end. Calling it again
// is a no-op.
func (s *spinner) Stop() {
	s.cancel()
	<-s.done
}

// Fail stops the spinner and prints msg as an error line.
func (s *spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the spinner ended because its parent context did.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
