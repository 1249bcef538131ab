package sig

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

type ReceivedHandler interface {
	Handle(os.Signal)
}

type ReceivedHandlerFunc func(os.Signal)

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(sig os.Signal) {
	s(sig)
}

// ReceivedError is returned by Loop when it stopped because a signal
// arrived. It carries the conventional 128+N exit status.
type ReceivedError struct {
	Signal os.Signal
}

func (e *ReceivedError) Error() string {
	return fmt.Sprintf("received signal %s", e.Signal)
}

func (e *ReceivedError) ExitStatus() int {
	if s, ok := e.Signal.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal
}

// New creates a new signal handler that forwards the specified signals
// (default: SIGTERM, SIGINT, SIGHUP) to h. h may be nil.
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
	}
}

// Loop waits until either ctx is done or a signal arrives, and calls
// cancel on the way out. The returned error is ctx.Err() in the first
// case and a *ReceivedError in the second.
func (h *Handler) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer signal.Stop(h.sigCh)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-h.sigCh:
		if h.onSignalReceived != nil {
			h.onSignalReceived.Handle(sig)
		}
		return &ReceivedError{Signal: sig}
	}
}
