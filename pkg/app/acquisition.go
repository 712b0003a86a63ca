package app

import (
	"sync"

	"github.com/womat/debug"

	"hotfilm/pkg/sample"
)

// serviceAcquisition runs the acquisition pipeline until the read limit is
// reached or the device fails, then signals application shutdown.
// It is designed to run in a separate go function, see app.Run().
func (app *App) serviceAcquisition() {
	if err := app.acquirer.Run(); err != nil {
		debug.ErrorLog.Printf("acquisition session aborted: %v", err)
	}
	close(app.shutdown)
}

// latestData is the sink listener that keeps the most recent window's
// diagnostic and statistics records for the data webservice. Series records
// are not retained, the full-rate data is too large for the web surface.
type latestData struct {
	sync.RWMutex
	diag  sample.Diagnostic
	stats []sample.Stats
	valid bool
}

// Publish copies the record contents; the references are not retained.
// The diagnostic record opens each window, so it also resets the stats list.
func (l *latestData) Publish(r sample.Record) {
	switch rec := r.(type) {
	case *sample.Diagnostic:
		l.Lock()
		l.diag = *rec
		l.stats = l.stats[:0]
		l.valid = true
		l.Unlock()
	case *sample.Stats:
		l.Lock()
		l.stats = append(l.stats, *rec)
		l.Unlock()
	}
}

// snapshot returns a copy of the latest window data.
func (l *latestData) snapshot() (sample.Diagnostic, []sample.Stats, bool) {
	l.RLock()
	defer l.RUnlock()

	stats := make([]sample.Stats, len(l.stats))
	copy(stats, l.stats)
	return l.diag, stats, l.valid
}
