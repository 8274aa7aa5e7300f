package models

import "time"

// ServiceWindow selects which service the watcher hunts for.
type ServiceWindow string

const (
	ServiceDinner ServiceWindow = "dinner"
	ServiceLunch  ServiceWindow = "lunch"
	ServiceAny    ServiceWindow = "any"
)

// ProbeOutcome classifies the page state reached after advancing past a
// candidate date.
type ProbeOutcome int

const (
	// OutcomeAvailable means the flow reached a real booking form.
	OutcomeAvailable ProbeOutcome = iota
	// OutcomeFullyBooked means the page showed an explicit no-availability phrase.
	OutcomeFullyBooked
	// OutcomeIndeterminate means neither a booking form nor a fully-booked
	// phrase was found. Whether this counts as a find is a policy decision.
	OutcomeIndeterminate
	// OutcomeProbeError means the probe itself failed (locate/click/timeout).
	OutcomeProbeError
)

func (o ProbeOutcome) String() string {
	switch o {
	case OutcomeAvailable:
		return "available"
	case OutcomeFullyBooked:
		return "fully-booked"
	case OutcomeIndeterminate:
		return "indeterminate"
	case OutcomeProbeError:
		return "probe-error"
	default:
		return "unknown"
	}
}

// StepStatus is the result of one bounded interaction with the page.
// Every place the original flow swallowed an exception is represented
// by exactly one StepResult so failures stay observable.
type StepStatus int

const (
	StepOK StepStatus = iota
	StepTimeout
	StepNotFound
	StepError
)

func (s StepStatus) String() string {
	switch s {
	case StepOK:
		return "ok"
	case StepTimeout:
		return "timeout"
	case StepNotFound:
		return "not-found"
	case StepError:
		return "error"
	default:
		return "unknown"
	}
}

// StepResult records the outcome of a single probe step.
type StepResult struct {
	Step   string
	Status StepStatus
	Err    error
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Status == StepOK }

// ProbeResult is the classification of one candidate after a full probe.
type ProbeResult struct {
	Label   string
	Outcome ProbeOutcome
	// FailedStep names the step that produced OutcomeProbeError, empty otherwise.
	FailedStep string
}

// BatchReport aggregates one invocation's probes.
type BatchReport struct {
	Results   []ProbeResult
	Available []string // labels counted as finds under the active policy
	CheckedAt time.Time
}

// NotificationEvent is one outbound message. It is produced per
// discovered batch and never persisted.
type NotificationEvent struct {
	Subject   string
	Body      string
	Recipient string
}
