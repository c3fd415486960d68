package presenter

import (
	"log/slog"

	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/domain/render"
	"github.com/soocke/mosaic-go/domain/selection"
)

// SelectionInbox accepts selection-bound messages without blocking.
type SelectionInbox interface {
	TrySend(selection.Message) (bool, error)
}

// InputPresenter forwards user input to the selection actor. It never blocks
// the Tk goroutine: messages that do not fit into the selection mailbox wait in
// a local queue and are retried on the next flush. A pointer drag or viewport size
// queued last is replaced by a newer one of the same kind, keeping FIFO order.
type InputPresenter struct {
	inbox   SelectionInbox
	logger  *slog.Logger
	pending []selection.Message
	closed  bool
}

// NewInputPresenter returns an input presenter sending to inbox.
func NewInputPresenter(inbox SelectionInbox, logger *slog.Logger) *InputPresenter {
	return &InputPresenter{inbox: inbox, logger: logger}
}

// Open asks for the image at path. An empty path (cancelled dialog) is ignored.
func (p *InputPresenter) Open(path string) {
	if path == "" {
		return
	}
	p.enqueue(selection.LoadImage{Path: path})
}

// Save asks for the mosaic to be written to path. An empty path is ignored.
func (p *InputPresenter) Save(path string) {
	if path == "" {
		return
	}
	p.enqueue(selection.SaveImage{Path: path})
}

// GrabScreen asks for a screen capture as the new source image.
func (p *InputPresenter) GrabScreen() { p.enqueue(selection.LoadScreen{}) }

// Pointer reports a press or drag in the selection preview.
func (p *InputPresenter) Pointer(button int, x, y float64) {
	if p == nil {
		return
	}
	msg := selection.PointerDown{Button: button, X: x, Y: y}
	if n := len(p.pending); n > 0 {
		if last, ok := p.pending[n-1].(selection.PointerDown); ok && last.Button == button {
			p.pending[n-1] = msg
			p.Flush()
			return
		}
	}
	p.enqueue(msg)
}

// Resized reports the size of a preview area.
func (p *InputPresenter) Resized(target render.Target, w, h int) {
	if p == nil {
		return
	}
	msg := selection.ImageResized{Target: target, Size: raster.Sz(max(w, 0), max(h, 0))}
	if n := len(p.pending); n > 0 {
		if last, ok := p.pending[n-1].(selection.ImageResized); ok && last.Target == target {
			p.pending[n-1] = msg
			p.Flush()
			return
		}
	}
	p.enqueue(msg)
}

func (p *InputPresenter) enqueue(msg selection.Message) {
	if p == nil || p.closed {
		return
	}
	p.pending = append(p.pending, msg)
	p.Flush()
}

// Flush sends as many queued messages as the selection mailbox accepts.
func (p *InputPresenter) Flush() {
	if p == nil || p.inbox == nil || len(p.pending) == 0 {
		return
	}
	sent := 0
	for _, msg := range p.pending {
		ok, err := p.inbox.TrySend(msg)
		if err != nil {
			if p.logger != nil {
				p.logger.Error("selection actor gone, dropping input", "error", err, "dropped", len(p.pending)-sent)
			}
			p.closed = true
			p.pending = nil
			return
		}
		if !ok {
			break
		}
		sent++
	}
	p.pending = append(p.pending[:0], p.pending[sent:]...)
}

// Pending returns the number of queued messages.
func (p *InputPresenter) Pending() int {
	if p == nil {
		return 0
	}
	return len(p.pending)
}
