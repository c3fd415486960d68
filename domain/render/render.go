// Package render defines the messages the actors send to the presentation
// boundary, and the viewport identifiers the boundary reports sizes for.
package render

import "image"

// Target identifies one of the two preview areas.
type Target int

const (
	// Selection is the source preview the user draws the selection on.
	Selection Target = iota
	// Composite is the mosaic preview.
	Composite
)

func (t Target) String() string {
	switch t {
	case Selection:
		return "selection"
	case Composite:
		return "composite"
	default:
		return "unknown"
	}
}

// Lines holds the selection rectangle edges in display coordinates.
// X1/Y1 come from the selection start point and X2/Y2 from the end point, so
// they are not necessarily ordered.
type Lines struct {
	X1, X2, Y1, Y2 int
}

// Rect returns the ordered rectangle spanned by the lines.
func (l Lines) Rect() image.Rectangle {
	return image.Rect(l.X1, l.Y1, l.X2, l.Y2)
}

// Message is implemented by every presentation-bound message.
type Message interface{ isRender() }

// Source carries a freshly resized selection preview.
type Source struct{ Image *image.NRGBA }

// Overlay carries updated selection lines for the current preview.
type Overlay struct{ Lines Lines }

// Mosaic carries a freshly built composite preview.
type Mosaic struct{ Image *image.NRGBA }

// Saved reports the outcome of a save request. Err is nil on success.
type Saved struct {
	Path string
	Err  error
}

func (Source) isRender()  {}
func (Overlay) isRender() {}
func (Mosaic) isRender()  {}
func (Saved) isRender()   {}

// Sink accepts presentation-bound messages. Send may block for backpressure and
// returns an error once the presentation side is gone.
type Sink interface {
	Send(Message) error
}
