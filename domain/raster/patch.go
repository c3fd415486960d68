package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// Selection is a rectangle given by two corners in source-image coordinates.
// Start and End may be in any order; use Normalize for the ordered rectangle.
type Selection struct {
	Start image.Point
	End   image.Point
}

// FullSelection selects the whole of an image of the given size.
func FullSelection(size Size) Selection {
	return Selection{Start: image.Point{}, End: image.Pt(size.W, size.H)}
}

// Normalize returns the rectangle spanned by Start and End with Min <= Max.
func (s Selection) Normalize() image.Rectangle {
	return image.Rect(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// Empty reports whether the selection has zero width or height.
func (s Selection) Empty() bool {
	r := s.Normalize()
	return r.Dx() == 0 || r.Dy() == 0
}

// Clamp limits both corners to [0,size.W]x[0,size.H].
func (s Selection) Clamp(size Size) Selection {
	return Selection{Start: ClampPoint(s.Start, size), End: ClampPoint(s.End, size)}
}

// Fits reports whether both corners already lie within [0,size.W]x[0,size.H].
func (s Selection) Fits(size Size) bool {
	return s.Clamp(size) == s
}

// ClampPoint limits p to [0,size.W]x[0,size.H]. The far edges are inclusive
// because a selection corner may sit on the image border.
func ClampPoint(p image.Point, size Size) image.Point {
	return image.Pt(min(max(p.X, 0), max(size.W, 0)), min(max(p.Y, 0), max(size.H, 0)))
}

// ExtractPatch copies the selected sub-rectangle of src into a new buffer,
// pixel for pixel. The rectangle is clipped to the image; an empty result is
// the 1x1 transparent placeholder.
func ExtractPatch(src image.Image, sel Selection) *image.NRGBA {
	if isNil(src) {
		return Placeholder()
	}
	r := sel.Normalize().Add(src.Bounds().Min).Intersect(src.Bounds())
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return Placeholder()
	}
	return imaging.Crop(src, r)
}
