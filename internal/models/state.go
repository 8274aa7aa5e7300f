package models

import "time"

// Layout last_run_time is stored in, kept byte-compatible with the
// previous generation of the watcher so old state files keep loading.
const RunTimeLayout = "2006-01-02 15:04:05"

// RunState is the only entity that survives across invocations. Field
// names match the on-disk JSON exactly; nil timestamps serialize as null.
type RunState struct {
	TotalRuns        int     `json:"total_runs"`
	SuccessfulFinds  int     `json:"successful_finds"`
	LastReportTime   *string `json:"last_report_time"` // RFC 3339
	ReservationFound bool    `json:"reservation_found"`
	LastRunTime      *string `json:"last_run_time"`
}

// LastReport parses last_report_time. ok is false when the field is
// null or unparseable; callers treat both as "never reported".
func (s *RunState) LastReport() (time.Time, bool) {
	if s.LastReportTime == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *s.LastReportTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MarkReport records a successfully dispatched report.
func (s *RunState) MarkReport(now time.Time) {
	v := now.Format(time.RFC3339)
	s.LastReportTime = &v
}

// MarkRun stamps the start of an invocation.
func (s *RunState) MarkRun(now time.Time) {
	s.TotalRuns++
	v := now.Format(RunTimeLayout)
	s.LastRunTime = &v
}
