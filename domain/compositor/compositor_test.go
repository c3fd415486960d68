package compositor

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/mosaic-go/domain/actor"
	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/domain/render"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

var discardLogger = slog.New(slog.NewTextHandler(discardWriter{}, nil))

type recordingSink struct {
	mu   sync.Mutex
	msgs []render.Message
	err  error
}

func (s *recordingSink) Send(m render.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, m)
	return nil
}

func (s *recordingSink) messages() []render.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]render.Message(nil), s.msgs...)
}

type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) CompositorFinished() error {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
	return nil
}

func (n *countingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

type fakeEncoder struct {
	err   error
	saved map[string]*image.NRGBA
}

func (e *fakeEncoder) Encode(img image.Image, path string) error {
	if e.err != nil {
		return e.err
	}
	if e.saved == nil {
		e.saved = map[string]*image.NRGBA{}
	}
	e.saved[path] = img.(*image.NRGBA)
	return nil
}

type panicEncoder struct{}

func (panicEncoder) Encode(image.Image, string) error { panic("encoder exploded") }

func patchOf(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestBuild_MirrorIdentities(t *testing.T) {
	p := patchOf(7, 5)
	m := Build(p)
	require.Equal(t, raster.Sz(14, 10), raster.SizeOf(m))
	w, h := 7, 5
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := p.NRGBAAt(x, y)
			assert.Equal(t, want, m.NRGBAAt(x, y))
			assert.Equal(t, want, m.NRGBAAt(2*w-1-x, y))
			assert.Equal(t, want, m.NRGBAAt(x, 2*h-1-y))
			assert.Equal(t, want, m.NRGBAAt(2*w-1-x, 2*h-1-y))
		}
	}
}

func TestBuild_DeterministicAndPure(t *testing.T) {
	p := patchOf(9, 4)
	before := append([]byte(nil), p.Pix...)
	a := Build(p)
	b := Build(p)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, before, p.Pix, "Build must not touch its input")
}

func TestBuild_OneByOne(t *testing.T) {
	p := patchOf(1, 1)
	m := Build(p)
	require.Equal(t, raster.Sz(2, 2), raster.SizeOf(m))
	for _, pt := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		assert.Equal(t, p.NRGBAAt(0, 0), m.NRGBAAt(pt.X, pt.Y))
	}
	assert.Equal(t, raster.Sz(1, 1), raster.SizeOf(Build(nil)))
}

func TestComposite_FitsViewport(t *testing.T) {
	sink := &recordingSink{}
	n := &countingNotifier{}
	c := New(sink, n, &fakeEncoder{}, discardLogger)

	require.NoError(t, c.Receive(CompositeMosaic{Patch: patchOf(50, 30), Size: raster.Sz(40, 40)}))

	msgs := sink.messages()
	require.Len(t, msgs, 1)
	mosaic, ok := msgs[0].(render.Mosaic)
	require.True(t, ok)
	got := raster.SizeOf(mosaic.Image)
	assert.Equal(t, raster.Sz(40, 24), got)
	assert.LessOrEqual(t, got.W, 40)
	assert.LessOrEqual(t, got.H, 40)
	assert.Equal(t, 1, n.calls())
}

func TestComposite_ZeroViewportStillNotifies(t *testing.T) {
	sink := &recordingSink{}
	n := &countingNotifier{}
	c := New(sink, n, &fakeEncoder{}, discardLogger)

	require.NoError(t, c.Receive(CompositeMosaic{Patch: patchOf(4, 4), Size: raster.Sz(0, 0)}))
	require.NoError(t, c.Receive(CompositeMosaic{Patch: nil, Size: raster.Sz(10, 10)}))
	assert.Equal(t, 2, n.calls())
	for _, m := range sink.messages() {
		assert.Equal(t, raster.Sz(2, 2), raster.SizeOf(m.(render.Mosaic).Image))
	}
}

func TestComposite_NotifiesWhenPresentationGone(t *testing.T) {
	sink := &recordingSink{err: actor.ErrClosed}
	n := &countingNotifier{}
	c := New(sink, n, &fakeEncoder{}, discardLogger)

	assert.NoError(t, c.Receive(CompositeMosaic{Patch: patchOf(4, 4), Size: raster.Sz(8, 8)}))
	assert.Equal(t, 1, n.calls())
}

func TestComposite_NotifiesOnSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("boom")}
	n := &countingNotifier{}
	c := New(sink, n, &fakeEncoder{}, discardLogger)

	assert.Error(t, c.Receive(CompositeMosaic{Patch: patchOf(4, 4), Size: raster.Sz(8, 8)}))
	assert.Equal(t, 1, n.calls())
}

func TestSave_FullResolution(t *testing.T) {
	sink := &recordingSink{}
	n := &countingNotifier{}
	enc := &fakeEncoder{}
	c := New(sink, n, enc, discardLogger)

	require.NoError(t, c.Receive(SaveMosaic{Patch: patchOf(50, 30), Path: "out.png"}))
	require.Contains(t, enc.saved, "out.png")
	assert.Equal(t, raster.Sz(100, 60), raster.SizeOf(enc.saved["out.png"]))
	assert.Equal(t, 0, n.calls(), "saves do not touch the in-flight gate")
	require.Len(t, sink.messages(), 1)
	assert.Equal(t, render.Saved{Path: "out.png"}, sink.messages()[0])
}

func TestSave_ErrorIsReportedNotFatal(t *testing.T) {
	sink := &recordingSink{}
	failure := &raster.SaveError{Path: "x.png", Err: errors.New("disk full")}
	c := New(sink, &countingNotifier{}, &fakeEncoder{err: failure}, discardLogger)

	require.NoError(t, c.Receive(SaveMosaic{Patch: patchOf(2, 2), Path: "x.png"}))
	msgs := sink.messages()
	require.Len(t, msgs, 1)
	saved := msgs[0].(render.Saved)
	assert.ErrorIs(t, saved.Err, failure)
}

func TestActor_PanicInSaveKeepsCompositing(t *testing.T) {
	sink := &recordingSink{}
	n := &countingNotifier{}
	c := New(sink, n, panicEncoder{}, discardLogger)
	inbox := actor.NewMailbox[Message](3)
	h := Start(inbox, c)

	require.NoError(t, inbox.Send(SaveMosaic{Patch: patchOf(2, 2), Path: "a.png"}))
	require.NoError(t, inbox.Send(CompositeMosaic{Patch: patchOf(2, 2), Size: raster.Sz(4, 4)}))
	require.NoError(t, inbox.Stop())

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("compositor did not stop")
	}
	assert.Equal(t, 1, n.calls())
	require.Len(t, sink.messages(), 1)
	assert.IsType(t, render.Mosaic{}, sink.messages()[0])
}
