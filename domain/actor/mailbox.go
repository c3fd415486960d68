package actor

import (
	"errors"
	"sync"
)

// ErrClosed is returned when sending to a mailbox whose receiver has exited.
var ErrClosed = errors.New("actor: mailbox closed")

// envelope carries either a message or the shutdown sentinel.
type envelope[T any] struct {
	msg  T
	stop bool
}

// Mailbox is a bounded FIFO queue owned by a single receiver.
//
// Send blocks while the queue is full, which is the only flow control between
// actors. Stop enqueues a sentinel behind any pending messages. Close is called
// by the receiver when it exits so that blocked senders return ErrClosed.
type Mailbox[T any] struct {
	ch     chan envelope[T]
	closed chan struct{}
	once   sync.Once
}

// NewMailbox returns a mailbox holding at most capacity pending messages.
func NewMailbox[T any](capacity int) *Mailbox[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Mailbox[T]{
		ch:     make(chan envelope[T], capacity),
		closed: make(chan struct{}),
	}
}

// Send enqueues msg, blocking while the mailbox is full.
func (m *Mailbox[T]) Send(msg T) error {
	return m.put(envelope[T]{msg: msg})
}

// TrySend enqueues msg only if there is room. It reports whether msg was queued.
func (m *Mailbox[T]) TrySend(msg T) (bool, error) {
	select {
	case <-m.closed:
		return false, ErrClosed
	default:
	}
	select {
	case m.ch <- envelope[T]{msg: msg}:
		return true, nil
	case <-m.closed:
		return false, ErrClosed
	default:
		return false, nil
	}
}

// Stop enqueues the shutdown sentinel. Messages sent before Stop are still
// delivered first.
func (m *Mailbox[T]) Stop() error {
	return m.put(envelope[T]{stop: true})
}

func (m *Mailbox[T]) put(env envelope[T]) error {
	select {
	case <-m.closed:
		return ErrClosed
	default:
	}
	select {
	case m.ch <- env:
		return nil
	case <-m.closed:
		return ErrClosed
	}
}

// Receive blocks until a message or the sentinel arrives. ok is false for the
// sentinel.
func (m *Mailbox[T]) Receive() (msg T, ok bool) {
	env := <-m.ch
	return env.msg, !env.stop
}

// TryReceive returns the next pending message without blocking. more is false
// when the mailbox is empty or the next item is the sentinel.
func (m *Mailbox[T]) TryReceive() (msg T, more bool) {
	select {
	case env := <-m.ch:
		if env.stop {
			return msg, false
		}
		return env.msg, true
	default:
		return msg, false
	}
}

// Close marks the receiver as gone. Pending and future sends fail with ErrClosed.
func (m *Mailbox[T]) Close() {
	m.once.Do(func() { close(m.closed) })
}

// Closed reports whether Close was called.
func (m *Mailbox[T]) Closed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

// Len returns the number of queued items.
func (m *Mailbox[T]) Len() int { return len(m.ch) }
