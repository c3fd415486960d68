package model

import (
	"image"

	"github.com/soocke/mosaic-go/domain/render"
)

// PreviewModel holds what the two previews should show. Updates mark the
// affected preview dirty until a presenter takes it. It is used from the Tk
// goroutine only.
type PreviewModel struct {
	source *image.NRGBA
	lines  render.Lines
	mosaic *image.NRGBA

	selectionDirty bool
	mosaicDirty    bool
}

// NewPreviewModel returns an empty model.
func NewPreviewModel() *PreviewModel { return &PreviewModel{} }

// SetSource replaces the cached selection preview.
func (m *PreviewModel) SetSource(img *image.NRGBA) {
	if m == nil || img == nil {
		return
	}
	m.source = img
	m.selectionDirty = true
}

// SetLines replaces the overlay lines drawn on the selection preview.
func (m *PreviewModel) SetLines(l render.Lines) {
	if m == nil {
		return
	}
	m.lines = l
	m.selectionDirty = true
}

// SetMosaic replaces the composite preview.
func (m *PreviewModel) SetMosaic(img *image.NRGBA) {
	if m == nil || img == nil {
		return
	}
	m.mosaic = img
	m.mosaicDirty = true
}

// TakeSelection returns the selection preview and its lines if they changed
// since the last call. ok is false until a source preview has arrived.
func (m *PreviewModel) TakeSelection() (src *image.NRGBA, lines render.Lines, ok bool) {
	if m == nil || !m.selectionDirty || m.source == nil {
		return nil, render.Lines{}, false
	}
	m.selectionDirty = false
	return m.source, m.lines, true
}

// TakeMosaic returns the composite preview if it changed since the last call.
func (m *PreviewModel) TakeMosaic() (*image.NRGBA, bool) {
	if m == nil || !m.mosaicDirty {
		return nil, false
	}
	m.mosaicDirty = false
	return m.mosaic, true
}
