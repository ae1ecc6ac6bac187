package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner renders an animated waiting indicator on stderr. It degrades to a
// single static line when disabled, in CI, or when the writer is not a
// terminal.
type Spinner struct {
	mu       sync.Mutex
	message  string
	disabled bool
	writer   io.Writer
	startAt  time.Time
	done     chan struct{}
	stopOnce sync.Once
	started  bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string, disabled bool) *Spinner {
	return NewSpinnerWithContext(context.Background(), message, disabled)
}

// NewSpinnerWithContext creates a spinner that stops when ctx is done.
func NewSpinnerWithContext(ctx context.Context, message string, disabled bool) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message:  message,
		disabled: disabled,
		writer:   os.Stderr,
		startAt:  time.Now(),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NewSpinnerWithTimeout creates a spinner that stops itself after timeout,
// as a guard against a forgotten Stop on a hung operation.
func NewSpinnerWithTimeout(message string, disabled bool, timeout time.Duration) *Spinner {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	s := NewSpinnerWithContext(ctx, message, disabled)
	// The inner cancel stops the outer timeout context as well.
	outer := s.cancel
	s.cancel = func() {
		outer()
		cancel()
	}
	return s
}

// SetWriter redirects spinner output, used by tests.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Update replaces the spinner message. Safe to call while running.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// GetElapsed returns the time since the spinner was created.
func (s *Spinner) GetElapsed() time.Duration {
	return time.Since(s.startAt)
}

// Start begins the animation. Starting twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started || s.disabled {
		s.mu.Unlock()
		return
	}
	s.started = true
	w := s.writer
	msg := s.message
	s.mu.Unlock()

	if IsCI() || !isTerminalWriter(w) {
		// Non-interactive: one static line, no animation, no cursor control.
		fmt.Fprintf(w, "%s...\n", msg)
		go s.waitForStop(w, false)
		return
	}

	fmt.Fprint(w, "\033[?25l")
	go s.animate(w)
}

func (s *Spinner) animate(w io.Writer) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-s.done:
			s.clearLine(w, true)
			return
		case <-s.ctx.Done():
			s.clearLine(w, true)
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			fmt.Fprintf(w, "\r\033[K%s %s [%s]", spinnerFrames[frame%len(spinnerFrames)], msg, formatDuration(s.GetElapsed()))
			frame++
		}
	}
}

func (s *Spinner) waitForStop(_ io.Writer, _ bool) {
	select {
	case <-s.done:
	case <-s.ctx.Done():
	}
}

func (s *Spinner) clearLine(w io.Writer, restoreCursor bool) {
	fmt.Fprint(w, "\r\033[K")
	if restoreCursor {
		fmt.Fprint(w, "\033[?25h")
	}
}

// Stop ends the animation. Idempotent and safe to call concurrently or
// before Start.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.cancel()
		// Give the animation goroutine a beat to clear its line.
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			time.Sleep(10 * time.Millisecond)
		}
	})
}

// formatDuration renders a duration as MM:SS.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// isTerminalWriter reports whether w is an interactive terminal.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
