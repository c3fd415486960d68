package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/mosaic-go/domain/render"
	"github.com/soocke/mosaic-go/ui/images"
	"github.com/soocke/mosaic-go/ui/model"
)

// RenderInbox yields pending presentation messages without blocking.
type RenderInbox interface {
	TryReceive() (render.Message, bool)
}

// PreviewView describes the UI surface updated by the presenter.
type PreviewView interface {
	ShowSelection(img image.Image)
	ShowMosaic(img image.Image)
	SetStatus(text string)
}

// maxDrainPerTick bounds the work done on the Tk goroutine per tick.
const maxDrainPerTick = 64

// PreviewPresenter drains the presentation mailbox and pushes the latest
// previews to the view, at most once per preview per tick.
type PreviewPresenter struct {
	View    PreviewView
	inbox   RenderInbox
	model   *model.PreviewModel
	session *model.SessionModel
	style   images.OverlayStyle
	logger  *slog.Logger
	now     func() time.Time

	notice string
	status string
}

// NewPreviewPresenter constructs a preview presenter. The view may be attached
// later through the View field.
func NewPreviewPresenter(inbox RenderInbox, view PreviewView, previews *model.PreviewModel, session *model.SessionModel, style images.OverlayStyle, logger *slog.Logger) *PreviewPresenter {
	if previews == nil {
		previews = model.NewPreviewModel()
	}
	if session == nil {
		session = model.NewSessionModel()
	}
	return &PreviewPresenter{
		View:    view,
		inbox:   inbox,
		model:   previews,
		session: session,
		style:   style,
		logger:  logger,
		now:     time.Now,
	}
}

// Drain applies pending messages and refreshes the view.
func (p *PreviewPresenter) Drain() {
	if p == nil || p.inbox == nil {
		return
	}
	for i := 0; i < maxDrainPerTick; i++ {
		msg, more := p.inbox.TryReceive()
		if !more {
			break
		}
		p.apply(msg)
	}
	if p.View == nil {
		return
	}
	if src, lines, ok := p.model.TakeSelection(); ok {
		p.View.ShowSelection(images.DrawSelection(src, lines, p.style))
	}
	if mosaic, ok := p.model.TakeMosaic(); ok {
		p.View.ShowMosaic(mosaic)
	}
	if status := p.statusLine(); status != p.status {
		p.status = status
		p.View.SetStatus(status)
	}
}

func (p *PreviewPresenter) apply(msg render.Message) {
	switch m := msg.(type) {
	case render.Source:
		p.model.SetSource(m.Image)
		p.session.OnSource()
	case render.Overlay:
		p.model.SetLines(m.Lines)
	case render.Mosaic:
		p.model.SetMosaic(m.Image)
		p.session.OnMosaic(p.now())
	case render.Saved:
		p.session.OnSaved(m.Path, m.Err)
		if m.Err != nil {
			p.notice = fmt.Sprintf("Save failed: %v", m.Err)
		} else {
			p.notice = "Saved " + m.Path
		}
	default:
		if p.logger != nil {
			p.logger.Warn("unexpected presentation message", "type", fmt.Sprintf("%T", msg))
		}
	}
}

func (p *PreviewPresenter) statusLine() string {
	v := p.session.Values()
	line := fmt.Sprintf("Mosaics: %d | Saved: %d", v.Mosaics, v.Saves)
	if v.FailedSaves > 0 {
		line += fmt.Sprintf(" | Failed: %d", v.FailedSaves)
	}
	if p.notice != "" {
		line = p.notice + " | " + line
	}
	return line
}
