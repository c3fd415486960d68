package compositor

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/mosaic-go/domain/actor"
	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/domain/render"
)

// Message is implemented by every compositor-bound message.
type Message interface{ isCompositor() }

// CompositeMosaic asks for a preview mosaic of Patch fitting inside Size.
type CompositeMosaic struct {
	Patch *image.NRGBA
	Size  raster.Size
}

// SaveMosaic asks for the full-resolution mosaic of Patch written to Path.
type SaveMosaic struct {
	Patch *image.NRGBA
	Path  string
}

func (CompositeMosaic) isCompositor() {}
func (SaveMosaic) isCompositor()      {}

// Notifier is told when a composite request has been handled, whatever the
// outcome. The selection actor uses it to release its in-flight gate.
type Notifier interface {
	CompositorFinished() error
}

// Compositor builds mosaics off the selection actor's goroutine.
type Compositor struct {
	out      render.Sink
	notifier Notifier
	encoder  raster.Encoder
	logger   *slog.Logger
}

// New creates a compositor sending previews to out and completion notices to
// notifier. encoder writes saved mosaics.
func New(out render.Sink, notifier Notifier, encoder raster.Encoder, logger *slog.Logger) *Compositor {
	return &Compositor{out: out, notifier: notifier, encoder: encoder, logger: logger}
}

// Start runs c on its own goroutine fed by inbox.
func Start(inbox *actor.Mailbox[Message], c *Compositor) *actor.Handle {
	return actor.Start[Message]("compositor", inbox, c, c.logger)
}

// Receive handles one message. It implements actor.Receiver.
func (c *Compositor) Receive(msg Message) error {
	switch m := msg.(type) {
	case CompositeMosaic:
		return c.composite(m)
	case SaveMosaic:
		return c.save(m)
	default:
		return fmt.Errorf("compositor: unexpected message %T", msg)
	}
}

func (c *Compositor) composite(m CompositeMosaic) (err error) {
	// The notice goes out even when building panics; the actor loop recovers
	// the panic after this defer has run.
	defer func() {
		if nerr := c.notifier.CompositorFinished(); nerr != nil {
			if errors.Is(nerr, actor.ErrClosed) {
				c.debug("selection gone, completion notice dropped")
				return
			}
			if err == nil {
				err = nerr
			}
		}
	}()

	start := time.Now()
	quadrant := raster.Resize(m.Patch, m.Size.Half())
	mosaic := Build(quadrant)
	size := raster.SizeOf(mosaic)
	c.debug("mosaic composited",
		slog.Int("width", size.W),
		slog.Int("height", size.H),
		slog.Duration("elapsed", time.Since(start)),
	)
	if err := c.out.Send(render.Mosaic{Image: mosaic}); err != nil {
		if errors.Is(err, actor.ErrClosed) {
			c.debug("presentation gone, mosaic dropped")
			return nil
		}
		return fmt.Errorf("send mosaic: %w", err)
	}
	return nil
}

func (c *Compositor) save(m SaveMosaic) error {
	mosaic := Build(m.Patch)
	err := c.encoder.Encode(mosaic, m.Path)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("could not save mosaic", "path", m.Path, "error", err)
		}
	} else if c.logger != nil {
		size := raster.SizeOf(mosaic)
		c.logger.Info("mosaic saved",
			slog.String("path", m.Path),
			slog.Int("width", size.W),
			slog.Int("height", size.H),
			slog.String("pixels", humanize.Bytes(uint64(len(mosaic.Pix)))),
		)
	}
	if serr := c.out.Send(render.Saved{Path: m.Path, Err: err}); serr != nil && !errors.Is(serr, actor.ErrClosed) {
		return fmt.Errorf("send save result: %w", serr)
	}
	return nil
}

func (c *Compositor) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
