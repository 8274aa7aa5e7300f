package probe

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"grands-buffets-watch/internal/models"
)

// Driver is the browser automation surface the probe engine consumes.
// Implementations own one page; all methods act on it. Every call is a
// bounded-timeout suspension point.
type Driver interface {
	Navigate(url string) error
	Snapshot() ([]models.ElementSnapshot, error)
	Click(ref models.ElementRef, timeout time.Duration) error
	ClickByText(label string, timeout time.Duration) error
	SelectOption(selector, value string, timeout time.Duration) error
	WaitForIdle(timeout time.Duration) error
	VisibleText() (string, error)
	HasAnyElement(selectors ...string) (bool, error)
	Screenshot(path string) error
}

// IndeterminatePolicy decides whether an Indeterminate classification
// counts as a find. The site sometimes omits both the fully-booked
// message and the booking form, and neither reading is provably right.
type IndeterminatePolicy string

const (
	// PolicyOptimistic treats absence of an explicit full message as
	// availability. More false alarms, no missed slots.
	PolicyOptimistic IndeterminatePolicy = "optimistic"
	// PolicyStrict only counts probes that reached a booking form.
	PolicyStrict IndeterminatePolicy = "strict"
)

// CountsAsFind reports whether an outcome is included in the final
// available list under this policy. The zero value is optimistic.
func (p IndeterminatePolicy) CountsAsFind(o models.ProbeOutcome) bool {
	switch o {
	case models.OutcomeAvailable:
		return true
	case models.OutcomeIndeterminate:
		return p != PolicyStrict
	default:
		return false
	}
}

// Machine drives one candidate at a time through the reservation flow:
// reset to the calendar, reapply guest count, advance, re-locate the
// date control, click it, optionally pick a time slot, advance again,
// classify. Candidates share one page, so probing is strictly
// sequential.
type Machine struct {
	driver   Driver
	filter   *Filter
	detector *Detector
	log      *zap.SugaredLogger

	ReservationURL string
	Guests         string
	Window         models.ServiceWindow
	ScreenshotDir  string
	StepTimeout    time.Duration
	SettleTimeout  time.Duration
}

// NewMachine wires a probe state machine. A nil logger disables logging.
func NewMachine(driver Driver, filter *Filter, detector *Detector, log *zap.SugaredLogger) *Machine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Machine{
		driver:        driver,
		filter:        filter,
		detector:      detector,
		log:           log,
		StepTimeout:   3 * time.Second,
		SettleTimeout: 10 * time.Second,
	}
}

// GatherCandidates loads the calendar fresh and returns the filtered
// candidate list in DOM order. The advance past the guest-count step is
// best-effort here: some sessions land directly on the calendar.
func (m *Machine) GatherCandidates() ([]models.Candidate, FilterStats, error) {
	if step := m.reset(); !step.OK() {
		return nil, FilterStats{}, fmt.Errorf("failed to load reservation page: %w", step.Err)
	}
	if step := m.advance("advance-guests"); !step.OK() {
		m.log.Debugf("no advance button at gather stage, assuming calendar is visible")
	}
	m.settle()

	snapshot, err := m.driver.Snapshot()
	if err != nil {
		return nil, FilterStats{}, fmt.Errorf("failed to snapshot page elements: %w", err)
	}

	candidates, stats := m.filter.Select(snapshot)
	return candidates, stats, nil
}

// ProbeAll probes every candidate sequentially. A failed probe only
// loses its own candidate; the rest of the batch still runs.
func (m *Machine) ProbeAll(candidates []models.Candidate, policy IndeterminatePolicy) models.BatchReport {
	report := models.BatchReport{CheckedAt: time.Now()}

	for i, c := range candidates {
		m.log.Infof("--- Checking %d/%d: %s ---", i+1, len(candidates), c.Label)
		result := m.probeSafe(c)
		report.Results = append(report.Results, result)

		if policy.CountsAsFind(result.Outcome) {
			report.Available = append(report.Available, result.Label)
		}
	}

	return report
}

// probeSafe keeps a panicking probe from taking down the batch.
func (m *Machine) probeSafe(c models.Candidate) (result models.ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorf("⚠️ panic while probing %q: %v", c.Label, r)
			result = models.ProbeResult{Label: c.Label, Outcome: models.OutcomeProbeError, FailedStep: "panic"}
		}
	}()
	return m.Probe(c)
}

// Probe runs the full flow for one candidate.
func (m *Machine) Probe(target models.Candidate) models.ProbeResult {
	fail := func(step models.StepResult) models.ProbeResult {
		m.log.Warnf("⚠️ %s: step %s failed (%s)", target.Label, step.Step, step.Status)
		return models.ProbeResult{Label: target.Label, Outcome: models.OutcomeProbeError, FailedStep: step.Step}
	}

	if step := m.reset(); !step.OK() {
		return fail(step)
	}
	if step := m.advance("advance-guests"); !step.OK() {
		return fail(step)
	}

	// The reset re-fetched the DOM, so the stored element handle is
	// stale. Re-locate the control by label.
	ref, step := m.locate(target.Label)
	if !step.OK() {
		return fail(step)
	}

	if err := m.driver.Click(ref, m.StepTimeout); err != nil {
		return fail(models.StepResult{Step: "select-date", Status: models.StepError, Err: err})
	}
	m.settle()

	m.selectTimeSlot()

	if step := m.advance("advance-date"); !step.OK() {
		return fail(step)
	}
	m.settle()

	outcome := m.detector.Classify(m.driver)
	m.log.Infof("   📄 %s → %s", target.Label, outcome)

	if outcome == models.OutcomeAvailable {
		m.captureScreenshot()
	}

	return models.ProbeResult{Label: target.Label, Outcome: outcome}
}

// reset navigates back to the calendar and reapplies the guest count.
// Guest selection is best-effort: some flows remember it across resets.
func (m *Machine) reset() models.StepResult {
	if err := m.driver.Navigate(m.ReservationURL); err != nil {
		return models.StepResult{Step: "navigate", Status: models.StepError, Err: err}
	}
	m.settle()

	if err := m.driver.SelectOption("select", m.Guests, m.StepTimeout); err != nil {
		m.log.Warnf("⚠️ could not select guest count: %v", err)
	}
	return models.StepResult{Step: "navigate", Status: models.StepOK}
}

// advance clicks the first localized Next/Continue label that responds.
func (m *Machine) advance(step string) models.StepResult {
	for _, label := range AdvanceLabels {
		if err := m.driver.ClickByText(label, m.StepTimeout); err == nil {
			return models.StepResult{Step: step, Status: models.StepOK}
		}
	}
	return models.StepResult{Step: step, Status: models.StepNotFound}
}

// locate re-acquires the candidate list and finds the control whose
// label matches the target, tolerating containment in either direction.
func (m *Machine) locate(label string) (models.ElementRef, models.StepResult) {
	snapshot, err := m.driver.Snapshot()
	if err != nil {
		return nil, models.StepResult{Step: "locate-date", Status: models.StepError, Err: err}
	}

	candidates, _ := m.filter.Select(snapshot)
	for _, c := range candidates {
		if models.LabelMatches(c.Label, label) {
			return c.Ref, models.StepResult{Step: "locate-date", Status: models.StepOK}
		}
	}
	return nil, models.StepResult{Step: "locate-date", Status: models.StepNotFound}
}

// selectTimeSlot clicks the first enabled slot matching the configured
// service window. Not finding one is not a failure: many flows pick the
// service on a later page, so the probe proceeds without a selection.
func (m *Machine) selectTimeSlot() {
	if m.Window == models.ServiceAny || m.Window == "" {
		return
	}

	snapshot, err := m.driver.Snapshot()
	if err != nil {
		m.log.Warnf("⚠️ could not scan time slots: %v", err)
		return
	}

	for _, el := range snapshot {
		combined := el.CombinedText()
		if combined == "" || !MatchesService(combined, m.Window) {
			continue
		}
		if !el.IsEnabled() {
			m.log.Infof("   ❌ %s slot disabled: %s", m.Window, el.Label())
			continue
		}
		if err := m.driver.Click(el.Ref, m.StepTimeout); err != nil {
			m.log.Warnf("⚠️ could not click slot %q: %v", el.Label(), err)
			continue
		}
		m.log.Infof("   ✅ selected %s slot: %s", m.Window, el.Label())
		m.settle()
		return
	}

	m.log.Infof("   ⚠️ no available %s slot, proceeding without time selection", m.Window)
}

func (m *Machine) settle() {
	if err := m.driver.WaitForIdle(m.SettleTimeout); err != nil {
		m.log.Debugf("page settle timed out: %v", err)
	}
}

// captureScreenshot keeps visual evidence of a find. Failures are ignored.
func (m *Machine) captureScreenshot() {
	name := fmt.Sprintf("availability_found_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.ScreenshotDir, name)
	if err := m.driver.Screenshot(path); err != nil {
		m.log.Debugf("screenshot failed: %v", err)
		return
	}
	m.log.Infof("   📸 screenshot saved: %s", path)
}
