package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/go-homedir"
)

// ErrUnsupportedFormat is wrapped by LoadError when the file is not a
// recognised image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// LoadError reports a failure to read or decode a source image.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failure to encode or write an image.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %s: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// Decoder turns a file into an image buffer.
type Decoder interface {
	Decode(path string) (*image.NRGBA, error)
}

// Encoder writes an image buffer to a file, picking the format from the
// file extension.
type Encoder interface {
	Encode(img image.Image, path string) error
}

// sniffLen is the header size filetype needs to match every supported format.
const sniffLen = 262

type cacheKey struct {
	path    string
	modTime time.Time
	size    int64
}

// Codec decodes and encodes image files. Decoded buffers are kept in a small
// LRU keyed by path, modification time and file size so reopening an unchanged
// file skips the decode. Cached buffers are never mutated.
type Codec struct {
	cache       *lru.Cache[cacheKey, *image.NRGBA]
	jpegQuality int
	logger      *slog.Logger
}

// NewCodec creates a codec caching up to cacheSize decoded images; a size of
// zero disables caching.
func NewCodec(cacheSize, jpegQuality int, logger *slog.Logger) *Codec {
	c := &Codec{jpegQuality: jpegQuality, logger: logger}
	if cacheSize > 0 {
		if cache, err := lru.New[cacheKey, *image.NRGBA](cacheSize); err == nil {
			c.cache = cache
		}
	}
	if c.jpegQuality <= 0 || c.jpegQuality > 100 {
		c.jpegQuality = 95
	}
	return c
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	return homedir.Expand(path)
}

// Decode opens path, checks that it holds a supported image and returns its
// pixels as an NRGBA buffer with origin (0,0). All failures are *LoadError.
func (c *Codec) Decode(path string) (*image.NRGBA, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	st, err := os.Stat(resolved)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if st.IsDir() {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%s is a directory", resolved)}
	}
	key := cacheKey{path: resolved, modTime: st.ModTime(), size: st.Size()}
	if c.cache != nil {
		if img, ok := c.cache.Get(key); ok {
			if c.logger != nil {
				c.logger.Debug("decode cache hit", "path", resolved)
			}
			return img, nil
		}
	}
	if err := sniff(resolved); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	src, err := imaging.Open(resolved, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	img := imaging.Clone(src)
	if c.cache != nil {
		c.cache.Add(key, img)
	}
	return img, nil
}

// sniff rejects files whose header is not a known image type.
func sniff(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty file: %w", ErrUnsupportedFormat)
		}
		return fmt.Errorf("failed to read header: %w", err)
	}
	head = head[:n]
	if !filetype.IsImage(head) {
		kind, _ := filetype.Match(head)
		if kind == filetype.Unknown {
			return ErrUnsupportedFormat
		}
		return fmt.Errorf("%s: %w", kind.MIME.Value, ErrUnsupportedFormat)
	}
	return nil
}

// Encode writes img to path. The format follows the extension (png, jpg,
// gif, tif, bmp). All failures are *SaveError.
func (c *Codec) Encode(img image.Image, path string) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if _, err := imaging.FormatFromFilename(resolved); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if img == nil || SizeOf(img).Empty() {
		return &SaveError{Path: path, Err: errors.New("nothing to save")}
	}
	if err := imaging.Save(img, resolved, imaging.JPEGQuality(c.jpegQuality)); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

var (
	_ Decoder = (*Codec)(nil)
	_ Encoder = (*Codec)(nil)
)
