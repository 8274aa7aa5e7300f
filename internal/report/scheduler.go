// Package report decides when the periodic status notification is due.
package report

import (
	"time"

	"grands-buffets-watch/internal/models"
)

// DefaultInterval is the minimum time between status reports.
const DefaultInterval = 6 * time.Hour

// Scheduler is a pure cadence check over run state and a clock. It
// never mutates state; the caller stamps last_report_time only after a
// report actually went out.
type Scheduler struct {
	Interval time.Duration
}

// NewScheduler returns a scheduler at the default 6 hour cadence.
func NewScheduler() *Scheduler {
	return &Scheduler{Interval: DefaultInterval}
}

// IsDue reports whether a status report should be sent now. A state
// that has never reported, or whose stored timestamp cannot be parsed,
// is always due.
func (s *Scheduler) IsDue(st *models.RunState, now time.Time) bool {
	last, ok := st.LastReport()
	if !ok {
		return true
	}
	return now.Sub(last) >= s.Interval
}
