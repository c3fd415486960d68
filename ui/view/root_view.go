package view

import (
	"image"
	"log/slog"

	"github.com/soocke/mosaic-go/domain/render"
	"github.com/soocke/mosaic-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions. Nil handlers are skipped.
type Handlers struct {
	Open    func()
	Grab    func()
	Save    func()
	Exit    func()
	Pointer func(button int, x, y float64)
	Resized func(target render.Target, w, h int)
}

// RootView composes the top-level layout: a toolbar, the selection and
// composite previews side by side, and a status line.
type RootView struct {
	logger *slog.Logger

	selection *previewPane
	composite *previewPane
	status    *TLabelWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	ShowSelection(img image.Image)
	ShowMosaic(img image.Image)
	SetStatus(text string)
}

var _ UI = (*RootView)(nil)

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout and binds h.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	toolbar := Frame()
	Grid(toolbar, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	buttons := []struct {
		text  string
		style string
		fn    func()
	}{
		{"Open…", theme.StylePrimaryButton, h.Open},
		{"Grab screen", theme.StylePrimaryButton, h.Grab},
		{"Save mosaic…", theme.StylePrimaryButton, h.Save},
		{"Exit", theme.StyleDangerButton, h.Exit},
	}
	for i, b := range buttons {
		fn := b.fn
		if fn == nil {
			fn = func() {}
		}
		btn := TButton(Txt(b.text), Style(b.style), Command(fn))
		Grid(btn, In(toolbar), Row(0), Column(i), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
	}

	rv.selection = newPreviewPane(1, 0)
	rv.composite = newPreviewPane(1, 1)
	GridRowConfigure(App, 1, Weight(1))
	GridColumnConfigure(App, 0, Weight(1))
	GridColumnConfigure(App, 1, Weight(1))

	rv.status = TLabel(Txt("Open an image to start"), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(rv.status, Row(2), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))

	if h.Resized != nil {
		rv.selection.onResize(func(w, hh int) { h.Resized(render.Selection, w, hh) })
		rv.composite.onResize(func(w, hh int) { h.Resized(render.Composite, w, hh) })
	}
	rv.selection.onPointer(h.Pointer)
}

// ShowSelection replaces the selection preview.
func (rv *RootView) ShowSelection(img image.Image) {
	if rv != nil {
		rv.selection.show(img)
	}
}

// ShowMosaic replaces the composite preview.
func (rv *RootView) ShowMosaic(img image.Image) {
	if rv != nil {
		rv.composite.show(img)
	}
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.status != nil {
		rv.status.Configure(Txt(text))
	}
}
