package probe

import (
	"time"

	"grands-buffets-watch/internal/dateparse"
	"grands-buffets-watch/internal/models"
)

// Filter selects the date controls worth probing from a raw snapshot of
// the page's interactive elements.
type Filter struct {
	DayKeywords   []string
	HorizonMonths int
	// Now is the clock used for horizon checks; defaults to time.Now.
	Now func() time.Time
}

// FilterStats are per-criterion counts for one Select call. They are
// diagnostic output only and carry no contract.
type FilterStats struct {
	Total       int
	DayMatching int
	Enabled     int
	InHorizon   int
	Final       int
}

// Select returns, in DOM encounter order, every control that has text,
// names one of the target weekdays, is clickable and parses to a date
// inside the monitoring horizon. Text that does not parse to a date is
// assumed in range: a control we cannot read must still be probed.
func (f *Filter) Select(snapshot []models.ElementSnapshot) ([]models.Candidate, FilterStats) {
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}

	stats := FilterStats{Total: len(snapshot)}
	var candidates []models.Candidate

	for _, el := range snapshot {
		combined := el.CombinedText()
		if combined == "" {
			continue
		}

		dayMatch := containsAny(combined, f.DayKeywords)
		enabled := el.IsEnabled()
		inHorizon := true
		if spec, ok := dateparse.Parse(combined, now); ok {
			inHorizon = dateparse.WithinHorizon(spec, f.HorizonMonths, now)
		}

		if dayMatch {
			stats.DayMatching++
		}
		if enabled {
			stats.Enabled++
		}
		if inHorizon {
			stats.InHorizon++
		}

		if dayMatch && enabled && inHorizon {
			candidates = append(candidates, models.Candidate{Label: el.Label(), Ref: el.Ref})
		}
	}

	stats.Final = len(candidates)
	return candidates, stats
}
