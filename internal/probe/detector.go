package probe

import (
	"strings"

	"grands-buffets-watch/internal/models"
)

// Page is the read-only view of the current browser page the detector
// classifies. It is a subset of the full Driver surface.
type Page interface {
	VisibleText() (string, error)
	HasAnyElement(selectors ...string) (bool, error)
}

// Detector classifies the page reached after advancing past a selected
// date. An explicit fully-booked phrase always wins; otherwise reaching
// a contact form means real inventory exists.
type Detector struct {
	Phrases       []string
	FormSelectors []string
}

// NewDetector returns a detector with the site's known phrase and
// selector sets.
func NewDetector() *Detector {
	return &Detector{
		Phrases:       FullyBookedPhrases,
		FormSelectors: BookingFormSelectors,
	}
}

// Classify maps the current page to a probe outcome. Read failures on
// either signal degrade to the other; if both are unreadable the
// outcome is Indeterminate, never an error.
func (d *Detector) Classify(page Page) models.ProbeOutcome {
	if text, err := page.VisibleText(); err == nil {
		lower := strings.ToLower(text)
		for _, phrase := range d.Phrases {
			if strings.Contains(lower, phrase) {
				return models.OutcomeFullyBooked
			}
		}
	}

	if found, err := page.HasAnyElement(d.FormSelectors...); err == nil && found {
		return models.OutcomeAvailable
	}

	return models.OutcomeIndeterminate
}
