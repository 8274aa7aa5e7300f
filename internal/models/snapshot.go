package models

import "strings"

// ElementRef is an opaque handle to a live page element, owned by the
// browser driver that produced it. It is only valid until the next
// navigation or page reset.
type ElementRef any

// ElementSnapshot is a read-only view of one interactive page control
// at the moment the snapshot was taken.
type ElementSnapshot struct {
	Text         string
	AriaLabel    string
	Disabled     bool   // disabled attribute present
	AriaDisabled string // raw aria-disabled attribute value
	Classes      []string
	Ref          ElementRef
}

// CombinedText returns the text used for all keyword matching:
// inner text and aria label joined with a space.
func (e ElementSnapshot) CombinedText() string {
	return strings.TrimSpace(e.Text + " " + e.AriaLabel)
}

// Label returns the best human-readable identity for the control,
// preferring the aria label over the inner text.
func (e ElementSnapshot) Label() string {
	if aria := strings.TrimSpace(e.AriaLabel); aria != "" {
		return aria
	}
	return strings.TrimSpace(e.Text)
}

// IsEnabled reports whether the control can be clicked. A control is
// considered disabled if the disabled attribute is present, if
// aria-disabled is "true", or if any CSS class contains "disabled"
// (calendar widgets mark dead dates with classes like "day--disabled").
func (e ElementSnapshot) IsEnabled() bool {
	if e.Disabled {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(e.AriaDisabled), "true") {
		return false
	}
	for _, c := range e.Classes {
		if strings.Contains(strings.ToLower(c), "disabled") {
			return false
		}
	}
	return true
}

// Candidate is a date control that survived all filter criteria and is
// queued for probing. The label is kept separately from the element
// handle because the page is re-fetched between probes and the control
// has to be re-located by text.
type Candidate struct {
	Label string
	Ref   ElementRef
}

// LabelMatches reports whether two candidate labels identify the same
// control. The source page does not guarantee stable or unique labels,
// so matching tolerates substring containment in either direction.
func LabelMatches(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
