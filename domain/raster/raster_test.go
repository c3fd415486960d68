package raster

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a w x h image whose pixel (x,y) encodes its own position.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func TestFactor(t *testing.T) {
	tests := []struct {
		name   string
		src    Size
		dst    Size
		factor float64
	}{
		{"width bound", Sz(100, 50), Sz(50, 50), 0.5},
		{"height bound", Sz(50, 100), Sz(50, 50), 0.5},
		{"upscale", Sz(10, 10), Sz(40, 20), 2.0},
		{"zero source width", Sz(0, 10), Sz(40, 20), 1.0},
		{"zero source height", Sz(10, 0), Sz(40, 20), 1.0},
		{"zero target", Sz(10, 10), Sz(0, 0), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.factor, Factor(tt.src, tt.dst), 1e-9)
		})
	}
}

func TestFactor_IsMinimumOfAxisRatios(t *testing.T) {
	for w := 1; w <= 12; w += 3 {
		for h := 1; h <= 12; h += 4 {
			for tw := 0; tw <= 30; tw += 7 {
				for th := 0; th <= 30; th += 5 {
					want := min(float64(tw)/float64(w), float64(th)/float64(h))
					assert.InDelta(t, want, Factor(Sz(w, h), Sz(tw, th)), 1e-12)
				}
			}
		}
	}
}

func TestResize_FitsInside(t *testing.T) {
	out := Resize(gradient(100, 50), Sz(50, 50))
	assert.Equal(t, Sz(50, 25), SizeOf(out))

	out = Resize(gradient(50, 30), Sz(20, 20))
	assert.Equal(t, Sz(20, 12), SizeOf(out))
}

func TestResize_DegenerateInputs(t *testing.T) {
	assert.Equal(t, Sz(1, 1), SizeOf(Resize(gradient(10, 10), Sz(0, 5))))
	assert.Equal(t, Sz(1, 1), SizeOf(Resize(image.NewNRGBA(image.Rect(0, 0, 0, 0)), Sz(5, 5))))
	// extreme aspect ratios never collapse below one pixel
	assert.Equal(t, Sz(10, 1), SizeOf(Resize(gradient(1000, 1), Sz(10, 10))))
}

func TestResize_SameSizeIsCopy(t *testing.T) {
	src := gradient(8, 4)
	out := Resize(src, Sz(8, 4))
	assert.Equal(t, src.Pix, out.Pix)
	out.Pix[0] = 99
	assert.NotEqual(t, src.Pix[0], out.Pix[0], "resize must not alias its input")
}

func TestSelection_NormalizeSymmetric(t *testing.T) {
	points := []image.Point{{0, 0}, {10, 10}, {60, 40}, {3, 47}, {99, 0}}
	for _, a := range points {
		for _, b := range points {
			s1 := Selection{Start: a, End: b}
			s2 := Selection{Start: b, End: a}
			r := s1.Normalize()
			assert.GreaterOrEqual(t, r.Dx(), 0)
			assert.GreaterOrEqual(t, r.Dy(), 0)
			assert.Equal(t, r, s2.Normalize())
		}
	}
}

func TestExtractPatch_ExactCopy(t *testing.T) {
	src := gradient(100, 50)
	patch := ExtractPatch(src, Selection{Start: image.Pt(10, 10), End: image.Pt(60, 40)})
	require.Equal(t, Sz(50, 30), SizeOf(patch))
	for y := 0; y < 30; y++ {
		for x := 0; x < 50; x++ {
			assert.Equal(t, src.NRGBAAt(x+10, y+10), patch.NRGBAAt(x, y))
		}
	}
}

func TestExtractPatch_SwapIsIdentical(t *testing.T) {
	src := gradient(64, 64)
	a := ExtractPatch(src, Selection{Start: image.Pt(5, 40), End: image.Pt(30, 7)})
	b := ExtractPatch(src, Selection{Start: image.Pt(30, 7), End: image.Pt(5, 40)})
	assert.Equal(t, a.Rect, b.Rect)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestExtractPatch_EmptySelectionIsPlaceholder(t *testing.T) {
	src := gradient(20, 20)
	for _, sel := range []Selection{
		{Start: image.Pt(5, 5), End: image.Pt(5, 15)},
		{Start: image.Pt(5, 5), End: image.Pt(15, 5)},
		{},
		{Start: image.Pt(40, 40), End: image.Pt(50, 50)},
	} {
		p := ExtractPatch(src, sel)
		require.Equal(t, Sz(1, 1), SizeOf(p))
		assert.Equal(t, color.NRGBA{}, p.NRGBAAt(0, 0))
	}
	assert.Equal(t, Sz(1, 1), SizeOf(ExtractPatch(nil, Selection{})))
}

func TestTypedNilImage(t *testing.T) {
	var img *image.NRGBA
	assert.Equal(t, Size{}, SizeOf(img))
	assert.Equal(t, Sz(1, 1), SizeOf(Resize(img, Sz(10, 10))))
	assert.Equal(t, Sz(1, 1), SizeOf(ExtractPatch(img, Selection{End: image.Pt(5, 5)})))
}

func TestSelection_ClampAndFits(t *testing.T) {
	size := Sz(100, 50)
	s := Selection{Start: image.Pt(-5, 10), End: image.Pt(120, 70)}
	assert.False(t, s.Fits(size))
	c := s.Clamp(size)
	assert.Equal(t, Selection{Start: image.Pt(0, 10), End: image.Pt(100, 50)}, c)
	assert.True(t, c.Fits(size))
	assert.True(t, FullSelection(size).Fits(size))
	assert.False(t, FullSelection(size).Empty())
}

func TestSizeHalf(t *testing.T) {
	assert.Equal(t, Sz(20, 20), Sz(40, 40).Half())
	assert.Equal(t, Sz(1, 1), Sz(1, 0).Half())
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestCodec_DecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := gradient(30, 20)
	path := writePNG(t, dir, "src.png", src)

	c := NewCodec(2, 0, nil)
	img, err := c.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, Sz(30, 20), SizeOf(img))
	assert.Equal(t, src.Pix, img.Pix)

	again, err := c.Decode(path)
	require.NoError(t, err)
	assert.Same(t, img, again, "unchanged file should come from the cache")
}

func TestCodec_DecodeErrors(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec(0, 0, nil)

	_, err := c.Decode(filepath.Join(dir, "missing.png"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	text := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(text, []byte("not an image at all"), 0o644))
	_, err = c.Decode(text)
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = c.Decode(empty)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = c.Decode(dir)
	assert.ErrorAs(t, err, &le)
}

func TestCodec_Encode(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec(0, 90, nil)
	src := gradient(16, 8)

	out := filepath.Join(dir, "out.png")
	require.NoError(t, c.Encode(src, out))
	back, err := c.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, back.Pix)

	var se *SaveError
	assert.ErrorAs(t, c.Encode(src, filepath.Join(dir, "out.unknown")), &se)
	assert.ErrorAs(t, c.Encode(src, filepath.Join(dir, "no", "such", "dir.png")), &se)
	assert.ErrorAs(t, c.Encode(image.NewNRGBA(image.Rect(0, 0, 0, 0)), out), &se)
}
