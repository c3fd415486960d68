package actor

import (
	"errors"
	"log/slog"

	"github.com/soocke/mosaic-go/debug"
)

// Receiver processes one message at a time on the actor goroutine.
type Receiver[T any] interface {
	Receive(msg T) error
}

// Handle joins a running actor goroutine.
type Handle struct {
	name string
	done chan struct{}
}

// Name returns the actor name used in log records.
func (h *Handle) Name() string { return h.name }

// Join blocks until the actor loop has returned.
func (h *Handle) Join() { <-h.done }

// Done is closed once the actor loop has returned.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start runs r on its own goroutine, feeding it from inbox until the shutdown
// sentinel arrives. Processing errors are logged and the loop continues, except
// ErrClosed which means a peer is gone and ends the loop. A panic inside a
// handler is logged with its stack and the next message is processed.
func Start[T any](name string, inbox *Mailbox[T], r Receiver[T], logger *slog.Logger) *Handle {
	h := &Handle{name: name, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer inbox.Close()
		defer func() { debug.LogPanic(logger, name, recover()) }()
		for {
			msg, ok := inbox.Receive()
			if !ok {
				if logger != nil {
					logger.Debug("actor stopped", "actor", name)
				}
				return
			}
			if err := dispatch(name, r, msg, logger); err != nil {
				if errors.Is(err, ErrClosed) {
					if logger != nil {
						logger.Error("actor peer closed", "actor", name, "error", err)
					}
					return
				}
				if logger != nil {
					logger.Error("could not process message", "actor", name, "error", err)
				}
			}
		}
	}()
	return h
}

func dispatch[T any](name string, r Receiver[T], msg T, logger *slog.Logger) (err error) {
	defer func() { debug.LogPanic(logger, name, recover()) }()
	return r.Receive(msg)
}
