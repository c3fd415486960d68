package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the screen into an image buffer.
type ScreenGrabber func() (*image.NRGBA, error)

// GrabScreen captures the primary screen. Errors are reported as *LoadError so
// callers treat a failed grab like a failed load.
func GrabScreen() (*image.NRGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, &LoadError{Path: "<screen>", Err: fmt.Errorf("capture screen: %w", err)}
	}
	if img == nil || SizeOf(img).Empty() {
		return nil, &LoadError{Path: "<screen>", Err: fmt.Errorf("capture screen: empty frame")}
	}
	return imaging.Clone(img), nil
}
