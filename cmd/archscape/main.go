// Command archscape builds, renders and publishes the Coding Contest
// Platform architecture workspace.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/archscape/internal/cli"
	"github.com/matzehuels/archscape/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	c := cli.New(os.Stderr, cli.LogInfo)
	defer c.Close()

	return exitCode(os.Stderr, c.RootCommand().ExecuteContext(ctx))
}

// exitCode reports err on w and maps it to the process exit status.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	}
	fmt.Fprintln(w, "archscape:", errors.UserMessage(err))
	if errors.Is(err, errors.ErrCodeInvalidConfig) || errors.Is(err, errors.ErrCodeInvalidInput) {
		return 2
	}
	return 1
}
