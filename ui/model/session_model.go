package model

import "time"

// SessionStats is a snapshot of SessionModel.
type SessionStats struct {
	Loads       int
	Mosaics     int
	Saves       int
	FailedSaves int
	LastSaved   string
	LastMosaic  time.Time
}

// SessionModel counts pipeline activity seen by the window during this run.
// The zero value is ready to use.
type SessionModel struct {
	stats SessionStats
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnSource records a freshly rendered source preview, i.e. a loaded image or
// a resized viewport.
func (m *SessionModel) OnSource() {
	if m == nil {
		return
	}
	m.stats.Loads++
}

// OnMosaic records a composite preview arriving at now.
func (m *SessionModel) OnMosaic(now time.Time) {
	if m == nil {
		return
	}
	m.stats.Mosaics++
	m.stats.LastMosaic = now
}

// OnSaved records the outcome of a save.
func (m *SessionModel) OnSaved(path string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.stats.FailedSaves++
		return
	}
	m.stats.Saves++
	m.stats.LastSaved = path
}

// Values returns the current counters.
func (m *SessionModel) Values() SessionStats {
	if m == nil {
		return SessionStats{}
	}
	return m.stats
}
