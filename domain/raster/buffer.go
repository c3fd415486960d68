package raster

import (
	"image"
	"reflect"

	"github.com/disintegration/imaging"
)

// Size is a logical width/height pair, used for viewports and buffers alike.
type Size struct {
	W, H int
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h int) Size { return Size{W: w, H: h} }

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Half returns the size of one mosaic quadrant for a mosaic of size s,
// never smaller than 1x1.
func (s Size) Half() Size {
	return Size{W: max(1, s.W/2), H: max(1, s.H/2)}
}

// SizeOf returns the dimensions of img. A nil image, including a typed nil
// pointer, has zero size.
func SizeOf(img image.Image) Size {
	if isNil(img) {
		return Size{}
	}
	b := img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

// Placeholder returns the 1x1 fully transparent buffer used wherever there is
// nothing to show.
func Placeholder() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

// Factor returns the uniform "fit inside" scale from actual to target:
// min(target.W/actual.W, target.H/actual.H). A zero-sized source yields 1.
func Factor(actual, target Size) float64 {
	if actual.W <= 0 || actual.H <= 0 {
		return 1.0
	}
	fx := float64(target.W) / float64(actual.W)
	fy := float64(target.H) / float64(actual.H)
	if fx > fy {
		return fy
	}
	return fx
}

// FitSize returns the size src takes after an aspect-preserving fit into target,
// at least 1x1.
func FitSize(src, target Size) Size {
	f := Factor(src, target)
	return Size{
		W: max(1, int(float64(src.W)*f)),
		H: max(1, int(float64(src.H)*f)),
	}
}

// Resize scales src to fit inside target with nearest-neighbour sampling.
// An empty source or target yields the 1x1 placeholder.
func Resize(src image.Image, target Size) *image.NRGBA {
	size := SizeOf(src)
	if target.Empty() || size.Empty() {
		return Placeholder()
	}
	fit := FitSize(size, target)
	if fit == size {
		return imaging.Clone(src)
	}
	return imaging.Resize(src, fit.W, fit.H, imaging.NearestNeighbor)
}

func isNil(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
