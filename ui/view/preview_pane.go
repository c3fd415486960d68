package view

import (
	"image"
	"strconv"

	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// frameBorder is the frame border width in pixels, subtracted from reported
// sizes so a fitted image never makes the frame grow.
const frameBorder = 1

// previewPane is a resizable frame showing one image anchored at its top-left
// corner, so label coordinates equal image coordinates.
type previewPane struct {
	frame *FrameWidget
	label *LabelWidget
	photo *Img // last Tk photo image, deleted when replaced
}

// newPreviewPane creates the frame and label and grids the frame at row/col.
func newPreviewPane(row, col int) *previewPane {
	frame := Frame(Borderwidth(frameBorder), Relief("sunken"), Width(200), Height(120))
	Grid(frame, Row(row), Column(col), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	photo := NewPhoto(Data(images.EncodePNG(raster.Placeholder())))
	label := Label(Image(photo), Anchor("nw"), Borderwidth(0), Padx(0), Pady(0))
	Grid(label, In(frame), Row(0), Column(0), Sticky("nw"))
	return &previewPane{frame: frame, label: label, photo: photo}
}

// show replaces the displayed image.
func (p *previewPane) show(img image.Image) {
	if p == nil || p.label == nil || img == nil {
		return
	}
	data := images.EncodePNG(img)
	if len(data) == 0 {
		return
	}
	if p.photo != nil {
		p.photo.Delete()
	}
	p.photo = NewPhoto(Data(data))
	p.label.Configure(Image(p.photo))
}

// onResize calls fn with the usable inner size whenever the frame is resized.
func (p *previewPane) onResize(fn func(w, h int)) {
	if p == nil || fn == nil {
		return
	}
	Bind(p.frame, "<Configure>", Command(func(e *Event) {
		width, _ := strconv.Atoi(e.Width)
		height, _ := strconv.Atoi(e.Height)
		fn(max(width-2*frameBorder, 0), max(height-2*frameBorder, 0))
	}))
}

// onPointer calls fn for presses and drags of buttons 1 and 3 over the image.
func (p *previewPane) onPointer(fn func(button int, x, y float64)) {
	if p == nil || fn == nil {
		return
	}
	for _, button := range []int{1, 3} {
		b := button
		handler := func(e *Event) { fn(b, float64(e.X), float64(e.Y)) }
		Bind(p.label, pressEvent(b), Command(handler))
		Bind(p.label, motionEvent(b), Command(handler))
	}
}

func pressEvent(button int) string {
	if button == 1 {
		return "<ButtonPress-1>"
	}
	return "<ButtonPress-3>"
}

func motionEvent(button int) string {
	if button == 1 {
		return "<B1-Motion>"
	}
	return "<B3-Motion>"
}
