package selection

import (
	"github.com/soocke/mosaic-go/domain/actor"
	"github.com/soocke/mosaic-go/domain/compositor"
	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/domain/render"
)

// Message is implemented by every selection-bound message.
type Message interface{ isSelection() }

// LoadImage replaces the source image with the file at Path.
type LoadImage struct{ Path string }

// ReloadImage re-reads Path after it changed on disk. The selection survives
// when it still fits the new image.
type ReloadImage struct{ Path string }

// LoadScreen replaces the source image with a capture of the screen.
type LoadScreen struct{}

// ImageResized reports a new viewport size for one of the previews.
type ImageResized struct {
	Target render.Target
	Size   raster.Size
}

// PointerDown reports a press (or a drag with the button held) in the
// selection preview, in display coordinates. Button 1 moves the selection
// start and button 3 its end.
type PointerDown struct {
	Button int
	X, Y   float64
}

// CompositorFinished releases the in-flight composite gate.
type CompositorFinished struct{}

// SaveImage writes the full-resolution mosaic of the current selection.
type SaveImage struct{ Path string }

func (LoadImage) isSelection()          {}
func (ReloadImage) isSelection()        {}
func (LoadScreen) isSelection()         {}
func (ImageResized) isSelection()       {}
func (PointerDown) isSelection()        {}
func (CompositorFinished) isSelection() {}
func (SaveImage) isSelection()          {}

// Notifier adapts a selection mailbox to compositor.Notifier.
func Notifier(inbox *actor.Mailbox[Message]) compositor.Notifier {
	return finishedNotifier{inbox: inbox}
}

type finishedNotifier struct {
	inbox *actor.Mailbox[Message]
}

// CompositorFinished never blocks the compositor: when the selection mailbox is
// full the notice is delivered from a separate goroutine. At most one is ever
// outstanding since only one composite is in flight.
func (n finishedNotifier) CompositorFinished() error {
	ok, err := n.inbox.TrySend(CompositorFinished{})
	if err != nil || ok {
		return err
	}
	go func() { _ = n.inbox.Send(CompositorFinished{}) }()
	return nil
}
