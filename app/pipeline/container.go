// Package pipeline wires the actors, mailboxes and presenters behind the
// window without touching Tk.
package pipeline

import (
	"log/slog"
	"sync"

	"github.com/soocke/mosaic-go/config"
	"github.com/soocke/mosaic-go/domain/actor"
	"github.com/soocke/mosaic-go/domain/compositor"
	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/domain/render"
	"github.com/soocke/mosaic-go/domain/selection"
	"github.com/soocke/mosaic-go/domain/watch"
	"github.com/soocke/mosaic-go/ui/images"
	"github.com/soocke/mosaic-go/ui/model"
	"github.com/soocke/mosaic-go/ui/presenter"
)

// AppContainer assembles mailboxes, actors, models and presenters. The view is
// attached to Preview.View by the caller.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger
	Codec  *raster.Codec

	UIInbox         *actor.Mailbox[render.Message]
	SelectionInbox  *actor.Mailbox[selection.Message]
	CompositorInbox *actor.Mailbox[compositor.Message]

	Selection  *selection.State
	Compositor *compositor.Compositor
	Watcher    *watch.Watcher // nil when watching is disabled or unavailable

	Previews *model.PreviewModel
	Session  *model.SessionModel
	Input    *presenter.InputPresenter
	Preview  *presenter.PreviewPresenter

	selectionHandle  *actor.Handle
	compositorHandle *actor.Handle
	shutdownOnce     sync.Once
}

// BuildContainer constructs all components. grab may be nil to disable screen
// capture. No goroutines run until Start, except the file watcher.
func BuildContainer(cfg *config.Config, logger *slog.Logger, grab raster.ScreenGrabber) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.Validate()
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Codec = raster.NewCodec(cfg.DecodeCacheSize, cfg.JPEGQuality, logger)

	c.UIInbox = actor.NewMailbox[render.Message](cfg.QueueSize)
	c.SelectionInbox = actor.NewMailbox[selection.Message](cfg.QueueSize)
	c.CompositorInbox = actor.NewMailbox[compositor.Message](cfg.QueueSize)

	deps := selection.Deps{
		Decoder:    c.Codec,
		Grab:       grab,
		Out:        c.UIInbox,
		Compositor: c.CompositorInbox,
		Logger:     logger,
	}
	if cfg.WatchSource {
		w, err := watch.New(func(path string) error {
			return c.SelectionInbox.Send(selection.ReloadImage{Path: path})
		}, watch.DefaultDelay, logger)
		if err != nil {
			if logger != nil {
				logger.Warn("source watching disabled", "error", err)
			}
		} else {
			c.Watcher = w
			deps.Watcher = w
		}
	}
	c.Selection = selection.New(deps)
	c.Compositor = compositor.New(c.UIInbox, selection.Notifier(c.SelectionInbox), c.Codec, logger)

	style, err := images.ParseOverlayStyle(cfg.OverlayColor, cfg.OverlayOpacity)
	if err != nil {
		d := config.DefaultConfig()
		style, _ = images.ParseOverlayStyle(d.OverlayColor, d.OverlayOpacity)
	}
	c.Previews = model.NewPreviewModel()
	c.Session = model.NewSessionModel()
	c.Input = presenter.NewInputPresenter(c.SelectionInbox, logger)
	c.Preview = presenter.NewPreviewPresenter(c.UIInbox, nil, c.Previews, c.Session, style, logger)
	return c
}

// Start launches the selection and compositor actors.
func (c *AppContainer) Start() {
	c.compositorHandle = compositor.Start(c.CompositorInbox, c.Compositor)
	c.selectionHandle = selection.Start(c.SelectionInbox, c.Selection)
}

// Shutdown stops everything once the window is gone: the presentation inbox is
// closed so actors drop further updates, then the watcher, the selection actor
// and finally the compositor are stopped, each actor joined before the next.
func (c *AppContainer) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.UIInbox.Close()
		if c.Watcher != nil {
			if err := c.Watcher.Close(); err != nil && c.Logger != nil {
				c.Logger.Warn("close file watcher", "error", err)
			}
		}
		if n := c.Input.Pending(); n > 0 && c.Logger != nil {
			c.Logger.Debug("dropping queued input", "count", n)
		}
		stop(c.SelectionInbox, c.selectionHandle)
		stop(c.CompositorInbox, c.compositorHandle)
		if c.Logger != nil {
			c.Logger.Info("pipeline stopped")
		}
	})
}

func stop[T any](inbox *actor.Mailbox[T], h *actor.Handle) {
	if h == nil {
		inbox.Close()
		return
	}
	_ = inbox.Stop()
	h.Join()
}
