// Command classview lays out class hierarchies and lets users rearrange
// them in the terminal or through an HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/classview/internal/cli"
	apperrors "github.com/matzehuels/classview/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()

	if code := exitCode(err); code != 0 {
		if code != 130 {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}

// exitCode maps a command error to the process exit status: 130 after an
// interrupt, 2 for invalid input, 1 for anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case apperrors.HTTPStatus(err) == 400:
		return 2
	default:
		return 1
	}
}
