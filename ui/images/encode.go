package images

import (
	"bytes"
	"image"
	"image/png"
)

// previews are re-encoded on every update, so speed beats size here.
var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG encodes an image to PNG bytes for a Tk photo. Errors are ignored and
// may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = encoder.Encode(&buf, img)
	return buf.Bytes()
}
