package images

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/mosaic-go/domain/render"
)

// OverlayStyle is the colour and opacity of the selection rectangle.
type OverlayStyle struct {
	Color   colorful.Color
	Opacity float64
}

// ParseOverlayStyle builds a style from a hex colour such as "#ff00ff".
// Opacity is clamped to [0,1].
func ParseOverlayStyle(hex string, opacity float64) (OverlayStyle, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return OverlayStyle{}, fmt.Errorf("overlay colour %q: %w", hex, err)
	}
	return OverlayStyle{Color: c, Opacity: min(max(opacity, 0), 1)}, nil
}

// DrawSelection returns a copy of base with the selection rectangle outlined.
// Edges lying on the far image border are drawn on the last row or column so a
// full-image selection stays visible. base is not modified.
func DrawSelection(base image.Image, lines render.Lines, style OverlayStyle) *image.NRGBA {
	out := imaging.Clone(base)
	b := out.Bounds()
	if b.Empty() {
		return out
	}
	r := lines.Rect()
	x0, x1 := clampTo(r.Min.X, b.Dx()), clampTo(r.Max.X, b.Dx())
	y0, y1 := clampTo(r.Min.Y, b.Dy()), clampTo(r.Max.Y, b.Dy())
	for x := x0; x <= x1; x++ {
		blend(out, x, y0, style)
		if y1 != y0 {
			blend(out, x, y1, style)
		}
	}
	for y := y0 + 1; y < y1; y++ {
		blend(out, x0, y, style)
		if x1 != x0 {
			blend(out, x1, y, style)
		}
	}
	return out
}

func clampTo(v, n int) int {
	return min(max(v, 0), n-1)
}

func blend(img *image.NRGBA, x, y int, style OverlayStyle) {
	p := img.NRGBAAt(x, y)
	src := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
	r, g, bl := src.BlendRgb(style.Color, style.Opacity).Clamped().RGB255()
	a := float64(p.A) + (255-float64(p.A))*style.Opacity
	img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: uint8(a + 0.5)})
}
