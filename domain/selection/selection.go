package selection

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/mosaic-go/domain/actor"
	"github.com/soocke/mosaic-go/domain/compositor"
	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/domain/render"
)

// CompositorInbox accepts compositor-bound messages.
type CompositorInbox interface {
	Send(compositor.Message) error
}

// SourceWatcher follows the file the current image came from. An empty path
// stops watching.
type SourceWatcher interface {
	Watch(path string) error
}

// Deps are the collaborators of the selection actor. Grab and Watcher are
// optional.
type Deps struct {
	Decoder    raster.Decoder
	Grab       raster.ScreenGrabber
	Out        render.Sink
	Compositor CompositorInbox
	Watcher    SourceWatcher
	Logger     *slog.Logger
}

// renderKey identifies what the presentation currently shows as the selection
// preview.
type renderKey struct {
	size       raster.Size
	generation uint64
}

// State is the selection actor. All fields are owned by the actor goroutine.
type State struct {
	deps Deps

	image      *image.NRGBA
	path       string
	generation uint64
	sel        raster.Selection

	selectSize raster.Size
	resultSize raster.Size

	rendered   bool
	lastRender renderKey

	compositorFree bool
	pending        bool
}

// New returns the initial selection state: a 1x1 transparent image, both
// viewports 1x1 and the compositor free.
func New(deps Deps) *State {
	return &State{
		deps:           deps,
		image:          raster.Placeholder(),
		selectSize:     raster.Sz(1, 1),
		resultSize:     raster.Sz(1, 1),
		compositorFree: true,
	}
}

// Start runs s on its own goroutine fed by inbox.
func Start(inbox *actor.Mailbox[Message], s *State) *actor.Handle {
	return actor.Start[Message]("selection", inbox, s, s.deps.Logger)
}

// Receive handles one message. It implements actor.Receiver.
func (s *State) Receive(msg Message) error {
	switch m := msg.(type) {
	case LoadImage:
		return s.load(m.Path, false)
	case ReloadImage:
		if m.Path != s.path {
			s.debug("ignoring reload of stale path", "path", m.Path)
			return nil
		}
		return s.load(m.Path, true)
	case LoadScreen:
		return s.loadScreen()
	case ImageResized:
		return s.resized(m.Target, m.Size)
	case PointerDown:
		return s.pointerDown(m)
	case CompositorFinished:
		s.compositorFree = true
		if s.pending {
			return s.requestComposite()
		}
		return nil
	case SaveImage:
		return s.save(m.Path)
	default:
		return fmt.Errorf("selection: unexpected message %T", msg)
	}
}

func (s *State) load(path string, keepSelection bool) error {
	start := time.Now()
	img, err := s.deps.Decoder.Decode(path)
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("could not load image", "path", path, "error", err)
		}
		return nil
	}
	s.replace(img, path, keepSelection)
	s.logLoaded(path, time.Since(start))
	if s.deps.Watcher != nil {
		if err := s.deps.Watcher.Watch(path); err != nil && s.deps.Logger != nil {
			s.deps.Logger.Warn("could not watch source image", "path", path, "error", err)
		}
	}
	return s.renderAll()
}

func (s *State) loadScreen() error {
	if s.deps.Grab == nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("screen capture unavailable")
		}
		return nil
	}
	start := time.Now()
	img, err := s.deps.Grab()
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("could not capture screen", "error", err)
		}
		return nil
	}
	s.replace(img, "", false)
	s.logLoaded("<screen>", time.Since(start))
	if s.deps.Watcher != nil {
		_ = s.deps.Watcher.Watch("")
	}
	return s.renderAll()
}

// replace installs a new source image. Viewport sizes are kept.
func (s *State) replace(img *image.NRGBA, path string, keepSelection bool) {
	size := raster.SizeOf(img)
	s.image = img
	s.path = path
	s.generation++
	if !keepSelection || !s.sel.Fits(size) {
		s.sel = raster.FullSelection(size)
	}
	s.rendered = false
}

func (s *State) logLoaded(source string, elapsed time.Duration) {
	if s.deps.Logger == nil {
		return
	}
	size := raster.SizeOf(s.image)
	s.deps.Logger.Info("image loaded",
		slog.String("source", source),
		slog.Int("width", size.W),
		slog.Int("height", size.H),
		slog.String("pixels", humanize.Bytes(uint64(len(s.image.Pix)))),
		slog.Duration("elapsed", elapsed),
	)
}

func (s *State) resized(target render.Target, size raster.Size) error {
	switch target {
	case render.Selection:
		if size == s.selectSize {
			return nil
		}
		s.selectSize = size
		return s.renderSelection()
	case render.Composite:
		if size == s.resultSize {
			return nil
		}
		s.resultSize = size
		return s.requestComposite()
	default:
		return fmt.Errorf("selection: unknown target %v", target)
	}
}

func (s *State) pointerDown(m PointerDown) error {
	if m.Button != 1 && m.Button != 3 {
		return nil
	}
	size := raster.SizeOf(s.image)
	factor := raster.Factor(size, s.selectSize)
	if factor <= 0 || math.IsNaN(m.X) || math.IsNaN(m.Y) {
		s.debug("pointer ignored", "button", m.Button, "factor", factor)
		return nil
	}
	p := raster.ClampPoint(image.Pt(toSource(m.X, factor), toSource(m.Y, factor)), size)
	if m.Button == 1 {
		s.sel.Start = p
	} else {
		s.sel.End = p
	}
	return s.renderAll()
}

// toSource maps a display coordinate back to source space, saturating instead
// of overflowing for absurd inputs.
func toSource(v, factor float64) int {
	f := math.Floor(v / factor)
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

func (s *State) renderAll() error {
	if err := s.renderSelection(); err != nil {
		return err
	}
	return s.requestComposite()
}

// renderSelection sends the overlay lines, preceded by a freshly resized
// preview unless the presentation already shows this image at this size.
func (s *State) renderSelection() error {
	lines := s.lines()
	key := renderKey{size: s.selectSize, generation: s.generation}
	if s.rendered && s.lastRender == key {
		return s.emit(render.Overlay{Lines: lines})
	}
	preview := raster.Resize(s.image, s.selectSize)
	s.rendered = true
	s.lastRender = key
	if err := s.emit(render.Source{Image: preview}); err != nil {
		return err
	}
	return s.emit(render.Overlay{Lines: lines})
}

// lines maps the selection corners into selection-preview coordinates.
func (s *State) lines() render.Lines {
	f := raster.Factor(raster.SizeOf(s.image), s.selectSize)
	scale := func(v int) int { return int(float64(v) * f) }
	return render.Lines{
		X1: scale(s.sel.Start.X),
		X2: scale(s.sel.End.X),
		Y1: scale(s.sel.Start.Y),
		Y2: scale(s.sel.End.Y),
	}
}

// requestComposite sends the current patch to the compositor if it is free,
// otherwise remembers that a newer mosaic is wanted.
func (s *State) requestComposite() error {
	if !s.compositorFree {
		s.pending = true
		return nil
	}
	patch := raster.ExtractPatch(s.image, s.sel)
	if err := s.deps.Compositor.Send(compositor.CompositeMosaic{Patch: patch, Size: s.resultSize}); err != nil {
		return fmt.Errorf("request composite: %w", err)
	}
	s.compositorFree = false
	s.pending = false
	return nil
}

func (s *State) save(path string) error {
	if s.generation == 0 {
		err := &raster.SaveError{Path: path, Err: errors.New("no image loaded")}
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("could not save mosaic", "path", path, "error", err)
		}
		return s.emit(render.Saved{Path: path, Err: err})
	}
	s.debug("save requested", "path", path)
	patch := raster.ExtractPatch(s.image, s.sel)
	if err := s.deps.Compositor.Send(compositor.SaveMosaic{Patch: patch, Path: path}); err != nil {
		return fmt.Errorf("request save: %w", err)
	}
	return nil
}

// emit forwards msg to the presentation. Once the window is gone messages are
// dropped.
func (s *State) emit(msg render.Message) error {
	err := s.deps.Out.Send(msg)
	if errors.Is(err, actor.ErrClosed) {
		s.debug("presentation gone, dropping update", "message", fmt.Sprintf("%T", msg))
		return nil
	}
	return err
}

func (s *State) debug(msg string, args ...any) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, args...)
	}
}
