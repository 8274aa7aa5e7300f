// Package probe implements the availability probe engine: candidate
// filtering, the per-candidate probing state machine and the page
// classification heuristics it relies on.
package probe

import (
	"strings"

	"grands-buffets-watch/internal/models"
)

// Phrases the reservation site uses to explicitly deny availability.
// Matching any of these in the visible page text is authoritative.
var FullyBookedPhrases = []string{
	"we regret to inform you",
	"restaurant is fully booked",
	"complet pour ce service",
	"restaurant est complet",
	"aucune disponibilité",
	"no availability",
}

// Selectors whose presence marks a real booking form. The form is only
// reachable when actual inventory exists for the selected slot.
var BookingFormSelectors = []string{
	"input[name*='email']",
	"input[type='email']",
	"input[name*='phone']",
	"input[name*='nom']",
	"input[name*='name']",
	"textarea",
}

// Localized labels of the button that advances the reservation flow,
// tried in order. "Suivant" first: the site defaults to French.
var AdvanceLabels = []string{"Suivant", "Next", "Continuer", "Continue"}

// DefaultDayKeywords match Friday and Saturday, full names and
// abbreviations, English and French.
var DefaultDayKeywords = []string{
	"fri", "friday", "vendredi", "ven",
	"sat", "saturday", "samedi", "sam",
}

var dinnerKeywords = []string{"dinner", "dîner", "diner", "soir", "evening", "19:", "20:", "21:"}
var lunchKeywords = []string{"lunch", "déjeuner", "dejeuner", "midi", "12:", "13:", "14:"}

// ServiceKeywords returns the keyword set for a service window.
// ServiceAny has none: with no window configured every slot qualifies.
func ServiceKeywords(w models.ServiceWindow) []string {
	switch w {
	case models.ServiceDinner:
		return dinnerKeywords
	case models.ServiceLunch:
		return lunchKeywords
	default:
		return nil
	}
}

// MatchesService reports whether slot text belongs to the configured
// service window. An empty window matches everything.
func MatchesService(text string, w models.ServiceWindow) bool {
	keywords := ServiceKeywords(w)
	if len(keywords) == 0 {
		return true
	}
	return containsAny(text, keywords)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
