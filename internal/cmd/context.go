package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TavnitForms/tavnit-cli/internal/cli"
)

// NewSignalContext creates a context that is cancelled when SIGINT or SIGTERM
// is received. The returned cancel function should be called to release resources.
func NewSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// handlePullError wraps a pull failure, printing a friendlier message when
// the operation was interrupted by the user.
func handlePullError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		cli.PrintWarning("Pull cancelled")
	}
	return fmt.Errorf("pull failed: %w", err)
}
