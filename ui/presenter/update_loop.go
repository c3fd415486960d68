package presenter

// Loop drives the presenters from the Tk event loop.
//
// Each tick flushes queued input and drains the presentation mailbox, then
// invokes the scheduler callback. The zero value is usable (methods are
// nil-safe).
type Loop struct {
	Input    *InputPresenter
	Preview  *PreviewPresenter
	Schedule func()
}

func NewLoop(input *InputPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Input: input, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.Input.Flush()
	l.Preview.Drain()
	if l.Schedule != nil {
		l.Schedule()
	}
}
