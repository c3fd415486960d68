// Package raster holds the image-buffer primitives shared by the actors:
// sizes and scale factors, selections and patch extraction, nearest-neighbour
// fitting, and the file codec.
//
// Buffers are *image.NRGBA with origin (0,0). No function here mutates its
// input; every transform allocates a new buffer, which is what makes it safe to
// hand a buffer from one actor to another.
package raster
