package actor

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type recorder struct {
	mu   sync.Mutex
	seen []int
	fail map[int]error
	boom int
}

func (r *recorder) Receive(msg int) error {
	if msg == r.boom {
		panic("boom")
	}
	r.mu.Lock()
	r.seen = append(r.seen, msg)
	r.mu.Unlock()
	if err, ok := r.fail[msg]; ok {
		return err
	}
	return nil
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.seen...)
}

func TestMailbox_FIFOAndSentinel(t *testing.T) {
	mb := NewMailbox[int](3)
	require.NoError(t, mb.Send(1))
	require.NoError(t, mb.Send(2))
	require.NoError(t, mb.Stop())

	v, ok := mb.Receive()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = mb.Receive()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = mb.Receive()
	assert.False(t, ok, "sentinel must be delivered after pending messages")
}

func TestMailbox_BackpressureBlocksSender(t *testing.T) {
	mb := NewMailbox[int](1)
	require.NoError(t, mb.Send(1))

	sent := make(chan struct{})
	go func() {
		_ = mb.Send(2)
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("send into a full mailbox should block")
	case <-time.After(50 * time.Millisecond):
	}

	_, _ = mb.Receive()
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("sender not released after receive")
	}
}

func TestMailbox_CloseReleasesBlockedSender(t *testing.T) {
	mb := NewMailbox[int](1)
	require.NoError(t, mb.Send(1))

	errCh := make(chan error, 1)
	go func() { errCh <- mb.Send(2) }()
	time.Sleep(20 * time.Millisecond)
	mb.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked sender not released by Close")
	}
	assert.ErrorIs(t, mb.Send(3), ErrClosed)
	assert.ErrorIs(t, mb.Stop(), ErrClosed)
	assert.True(t, mb.Closed())
}

func TestMailbox_TryReceiveAndTrySend(t *testing.T) {
	mb := NewMailbox[string](1)
	_, more := mb.TryReceive()
	assert.False(t, more)

	ok, err := mb.TrySend("a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = mb.TrySend("b")
	require.NoError(t, err)
	assert.False(t, ok, "full mailbox must refuse TrySend")

	v, more := mb.TryReceive()
	assert.True(t, more)
	assert.Equal(t, "a", v)
	assert.Equal(t, 0, mb.Len())
}

func TestMailbox_MinimumCapacity(t *testing.T) {
	mb := NewMailbox[int](0)
	ok, err := mb.TrySend(1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStart_ProcessesInOrderAndJoins(t *testing.T) {
	mb := NewMailbox[int](3)
	r := &recorder{boom: -1}
	h := Start("test", mb, r, discardLogger)
	for i := 1; i <= 10; i++ {
		require.NoError(t, mb.Send(i))
	}
	require.NoError(t, mb.Stop())
	h.Join()

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, r.snapshot())
	assert.Equal(t, "test", h.Name())
	assert.True(t, mb.Closed(), "mailbox must be closed once the loop exits")
}

func TestStart_ErrorsAndPanicsDoNotStopLoop(t *testing.T) {
	mb := NewMailbox[int](3)
	r := &recorder{boom: 2, fail: map[int]error{3: errors.New("bad message")}}
	h := Start("test", mb, r, discardLogger)
	for _, v := range []int{1, 2, 3, 4} {
		require.NoError(t, mb.Send(v))
	}
	require.NoError(t, mb.Stop())
	h.Join()
	assert.Equal(t, []int{1, 3, 4}, r.snapshot())
}

func TestStart_ClosedPeerEndsLoop(t *testing.T) {
	mb := NewMailbox[int](3)
	r := &recorder{boom: -1, fail: map[int]error{1: ErrClosed}}
	h := Start("test", mb, r, discardLogger)
	require.NoError(t, mb.Send(1))

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop should exit when a peer is closed")
	}
	assert.ErrorIs(t, mb.Send(2), ErrClosed)
}
