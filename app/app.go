package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/mosaic-go/app/pipeline"
	"github.com/soocke/mosaic-go/config"
	"github.com/soocke/mosaic-go/domain/raster"
	"github.com/soocke/mosaic-go/ui/presenter"
	"github.com/soocke/mosaic-go/ui/theme"
	"github.com/soocke/mosaic-go/ui/view"
)

// Application owns the Tk window and the pipeline behind it.
type Application struct {
	title     string
	cfg       *config.Config
	logger    *slog.Logger
	initial   string
	tick      time.Duration
	container *pipeline.AppContainer
	rootView  *view.RootView
	loop      *presenter.Loop
	afterID   string
}

// NewApp builds the pipeline. initialPath, if not empty, is loaded once the
// window is up.
func NewApp(title string, cfg *config.Config, logger *slog.Logger, initialPath string) *Application {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Application{
		title:     title,
		cfg:       cfg,
		logger:    logger,
		initial:   initialPath,
		tick:      time.Duration(cfg.TickMS) * time.Millisecond,
		container: pipeline.BuildContainer(cfg, logger, raster.GrabScreen),
	}
}

// Start builds the window, runs the Tk event loop until the window closes and
// then shuts the pipeline down.
func (a *Application) Start() {
	theme.InitStyles(a.cfg.DarkMode)
	App.WmTitle(a.title)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.cfg.WindowWidth, a.cfg.WindowHeight))
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)

	c := a.container
	a.rootView = view.NewRootView(a.logger)
	a.rootView.Build(view.Handlers{
		Open:    func() { c.Input.Open(view.OpenImageDialog()) },
		Grab:    c.Input.GrabScreen,
		Save:    func() { c.Input.Save(view.SaveImageDialog()) },
		Exit:    a.exitHandler,
		Pointer: c.Input.Pointer,
		Resized: c.Input.Resized,
	})
	c.Preview.View = a.rootView

	c.Start()
	c.Input.Open(a.initial)

	a.loop = presenter.NewLoop(c.Input, c.Preview, a.scheduleUpdate)
	a.scheduleUpdate()
	if a.logger != nil {
		a.logger.Info("window ready", "width", a.cfg.WindowWidth, "height", a.cfg.WindowHeight)
	}

	App.Wait()
	c.Shutdown()
}

func (a *Application) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	Destroy(App)
}

func (a *Application) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(a.tick, func() { a.loop.Tick() })
}
