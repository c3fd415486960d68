package compositor

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/soocke/mosaic-go/domain/raster"
)

// Build tiles patch into a 2x2 mirrored mosaic twice its size:
//
//	+---------+---------+
//	| patch   | flip LR |
//	+---------+---------+
//	| flip TB | flip LR |
//	|         | + TB    |
//	+---------+---------+
//
// Every seam joins mirrored copies of the same edge, so the tiling is
// continuous. The result depends only on the patch pixels.
func Build(patch image.Image) *image.NRGBA {
	size := raster.SizeOf(patch)
	if size.Empty() {
		return raster.Placeholder()
	}
	src := imaging.Clone(patch)
	lr := imaging.FlipH(src)
	tb := imaging.FlipV(src)
	both := imaging.FlipV(lr)

	w, h := size.W, size.H
	out := image.NewNRGBA(image.Rect(0, 0, 2*w, 2*h))
	rowLen := w * 4
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			top := out.Pix[y*out.Stride:]
			bottom := out.Pix[(y+h)*out.Stride:]
			copy(top[:rowLen], row(src, y, rowLen))
			copy(top[rowLen:2*rowLen], row(lr, y, rowLen))
			copy(bottom[:rowLen], row(tb, y, rowLen))
			copy(bottom[rowLen:2*rowLen], row(both, y, rowLen))
		}
	})
	return out
}

func row(img *image.NRGBA, y, n int) []byte {
	i := y * img.Stride
	return img.Pix[i : i+n]
}
