// Package dateparse extracts calendar dates from the free-form text of
// reservation calendar controls. The source page mixes English and
// French labels, so matching is keyword-based rather than layout-based.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateSpec is a calendar date recovered from control text.
type DateSpec struct {
	Year  int
	Month time.Month
	Day   int
}

// In returns the date at midnight in the given location.
func (d DateSpec) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d DateSpec) valid() bool {
	t := d.In(time.UTC)
	return t.Day() == d.Day && t.Month() == d.Month && t.Year() == d.Year
}

// Month names and abbreviations, English and French, accent-less
// variants included. Scanned in order; the first substring hit wins.
var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January}, {"janvier", time.January}, {"jan", time.January},
	{"february", time.February}, {"février", time.February}, {"fevrier", time.February}, {"feb", time.February},
	{"march", time.March}, {"mars", time.March},
	{"april", time.April}, {"avril", time.April}, {"apr", time.April},
	{"may", time.May}, {"mai", time.May},
	{"june", time.June}, {"juin", time.June},
	{"july", time.July}, {"juillet", time.July}, {"jul", time.July},
	{"august", time.August}, {"août", time.August}, {"aout", time.August}, {"aug", time.August},
	{"september", time.September}, {"septembre", time.September}, {"sep", time.September}, {"sept", time.September},
	{"october", time.October}, {"octobre", time.October}, {"oct", time.October},
	{"november", time.November}, {"novembre", time.November}, {"nov", time.November},
	{"december", time.December}, {"décembre", time.December}, {"decembre", time.December}, {"dec", time.December},
}

var (
	dayPattern  = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)
)

// Parse scans text for a month name, a 1-2 digit day and an optional
// 4-digit year. When the year is absent it is inferred from today,
// rolling over to next year if the month has already passed (the
// calendar only shows future dates).
//
// ok is false when no month or day is found, or when the extracted
// triple is not a real calendar date. Callers must treat ok=false as
// "assume in range": a date we cannot read must never be excluded.
func Parse(text string, today time.Time) (DateSpec, bool) {
	lower := strings.ToLower(text)

	var month time.Month
	for _, m := range monthNames {
		if strings.Contains(lower, m.name) {
			month = m.month
			break
		}
	}
	if month == 0 {
		return DateSpec{}, false
	}

	dayMatch := dayPattern.FindStringSubmatch(text)
	if dayMatch == nil {
		return DateSpec{}, false
	}
	day, _ := strconv.Atoi(dayMatch[1])

	var year int
	if yearMatch := yearPattern.FindStringSubmatch(text); yearMatch != nil {
		year, _ = strconv.Atoi(yearMatch[1])
	} else {
		year = today.Year()
		if month < today.Month() {
			year++
		}
	}

	spec := DateSpec{Year: year, Month: month, Day: day}
	if !spec.valid() {
		return DateSpec{}, false
	}
	return spec, true
}

// WithinHorizon reports whether the date falls inside the monitoring
// window: today through today + horizonMonths * 30 days, inclusive.
func WithinHorizon(d DateSpec, horizonMonths int, today time.Time) bool {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 0, horizonMonths*30)
	t := d.In(today.Location())
	return !t.Before(start) && !t.After(end)
}
