package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grands-buffets-watch/internal/models"
)

// fakeDriver scripts one page. Snapshot alternates between the calendar
// view and the time-slot view when slots are set, matching the two
// snapshot points of a single probe.
type fakeDriver struct {
	calendar []models.ElementSnapshot
	slots    []models.ElementSnapshot

	pageText  string
	hasForm   bool
	navErr    error
	advanceOK bool

	snapshotCount int
	navigations   int
	clicks        []string
	advances      []string
	screenshots   []string
}

func (d *fakeDriver) Navigate(url string) error {
	d.navigations++
	return d.navErr
}

func (d *fakeDriver) Snapshot() ([]models.ElementSnapshot, error) {
	d.snapshotCount++
	if d.slots != nil && d.snapshotCount%2 == 0 {
		return d.slots, nil
	}
	return d.calendar, nil
}

func (d *fakeDriver) Click(ref models.ElementRef, timeout time.Duration) error {
	d.clicks = append(d.clicks, ref.(string))
	return nil
}

func (d *fakeDriver) ClickByText(label string, timeout time.Duration) error {
	if !d.advanceOK {
		return errors.New("no such button")
	}
	if label != "Suivant" {
		return errors.New("no such button")
	}
	d.advances = append(d.advances, label)
	return nil
}

func (d *fakeDriver) SelectOption(selector, value string, timeout time.Duration) error { return nil }
func (d *fakeDriver) WaitForIdle(timeout time.Duration) error                          { return nil }
func (d *fakeDriver) VisibleText() (string, error)                                     { return d.pageText, nil }
func (d *fakeDriver) HasAnyElement(selectors ...string) (bool, error)                  { return d.hasForm, nil }

func (d *fakeDriver) Screenshot(path string) error {
	d.screenshots = append(d.screenshots, path)
	return nil
}

func newTestMachine(d *fakeDriver, window models.ServiceWindow) *Machine {
	m := NewMachine(d, newTestFilter(), NewDetector(), nil)
	m.ReservationURL = "https://reservation.example.test/contact"
	m.Guests = "7"
	m.Window = window
	m.StepTimeout = time.Millisecond
	m.SettleTimeout = time.Millisecond
	return m
}

func calendarWith(labels ...string) []models.ElementSnapshot {
	var snapshot []models.ElementSnapshot
	for _, l := range labels {
		snapshot = append(snapshot, btn(l, false))
	}
	return snapshot
}

func TestMachine_ProbeAvailable(t *testing.T) {
	d := &fakeDriver{
		calendar:  calendarWith("Friday 10 May", "Saturday 11 May"),
		advanceOK: true,
		hasForm:   true,
	}
	m := newTestMachine(d, models.ServiceAny)

	result := m.Probe(models.Candidate{Label: "Friday 10 May"})

	assert.Equal(t, models.OutcomeAvailable, result.Outcome)
	assert.Equal(t, []string{"Friday 10 May"}, d.clicks)
	assert.Len(t, d.screenshots, 1, "finds are captured")
	assert.GreaterOrEqual(t, d.navigations, 1, "probe starts from a fresh calendar")
}

func TestMachine_ProbeFullyBooked(t *testing.T) {
	d := &fakeDriver{
		calendar:  calendarWith("Friday 10 May"),
		advanceOK: true,
		pageText:  "Le restaurant est complet pour ce service.",
		hasForm:   true,
	}
	m := newTestMachine(d, models.ServiceAny)

	result := m.Probe(models.Candidate{Label: "Friday 10 May"})

	assert.Equal(t, models.OutcomeFullyBooked, result.Outcome)
	assert.Empty(t, d.screenshots)
}

func TestMachine_LabelMatchingIsBidirectional(t *testing.T) {
	// The re-fetched control carries a longer label than the stored one.
	d := &fakeDriver{
		calendar:  calendarWith("Friday 10 May 2025, 7 guests"),
		advanceOK: true,
		hasForm:   true,
	}
	m := newTestMachine(d, models.ServiceAny)

	result := m.Probe(models.Candidate{Label: "Friday 10 May"})
	assert.Equal(t, models.OutcomeAvailable, result.Outcome)
}

func TestMachine_ProbeErrors(t *testing.T) {
	tests := []struct {
		name       string
		driver     *fakeDriver
		label      string
		failedStep string
	}{
		{
			"navigation fails",
			&fakeDriver{navErr: errors.New("net::ERR_CONNECTION_REFUSED"), advanceOK: true},
			"Friday 10 May",
			"navigate",
		},
		{
			"no advance button responds",
			&fakeDriver{calendar: calendarWith("Friday 10 May")},
			"Friday 10 May",
			"advance-guests",
		},
		{
			"candidate vanished after reset",
			&fakeDriver{calendar: calendarWith("Friday 10 May"), advanceOK: true},
			"Saturday 17 May",
			"locate-date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(tt.driver, models.ServiceAny)
			result := m.Probe(models.Candidate{Label: tt.label})
			assert.Equal(t, models.OutcomeProbeError, result.Outcome)
			assert.Equal(t, tt.failedStep, result.FailedStep)
		})
	}
}

func TestMachine_TimeSlotSelection(t *testing.T) {
	d := &fakeDriver{
		calendar:  calendarWith("Friday 10 May"),
		advanceOK: true,
		hasForm:   true,
		slots: []models.ElementSnapshot{
			{Text: "12:30", Ref: "12:30"},
			{Text: "19:30", Disabled: true, Ref: "19:30"},
			{Text: "20:00", Ref: "20:00"},
		},
	}
	m := newTestMachine(d, models.ServiceDinner)

	result := m.Probe(models.Candidate{Label: "Friday 10 May"})

	assert.Equal(t, models.OutcomeAvailable, result.Outcome)
	// Date first, then the first enabled dinner slot; the lunch slot and
	// the disabled 19:30 are passed over.
	assert.Equal(t, []string{"Friday 10 May", "20:00"}, d.clicks)
}

func TestMachine_NoTimeSlotIsNotAFailure(t *testing.T) {
	d := &fakeDriver{
		calendar:  calendarWith("Friday 10 May"),
		advanceOK: true,
		hasForm:   true,
		slots: []models.ElementSnapshot{
			{Text: "12:30", Ref: "12:30"},
			{Text: "13:15", Ref: "13:15"},
		},
	}
	m := newTestMachine(d, models.ServiceDinner)

	result := m.Probe(models.Candidate{Label: "Friday 10 May"})

	assert.Equal(t, models.OutcomeAvailable, result.Outcome)
	assert.Equal(t, []string{"Friday 10 May"}, d.clicks, "no dinner slot clicked")
}

func TestMachine_ProbeAll_FailureIsolation(t *testing.T) {
	d := &fakeDriver{
		calendar:  calendarWith("Saturday 11 May"),
		advanceOK: true,
		hasForm:   true,
	}
	m := newTestMachine(d, models.ServiceAny)

	report := m.ProbeAll([]models.Candidate{
		{Label: "Friday 10 May"},   // not on the page anymore
		{Label: "Saturday 11 May"}, // still there
	}, PolicyOptimistic)

	require.Len(t, report.Results, 2)
	assert.Equal(t, models.OutcomeProbeError, report.Results[0].Outcome)
	assert.Equal(t, models.OutcomeAvailable, report.Results[1].Outcome)
	assert.Equal(t, []string{"Saturday 11 May"}, report.Available,
		"a failed probe never reaches the available list")
}

func TestMachine_ProbeAll_IndeterminatePolicy(t *testing.T) {
	newDriver := func() *fakeDriver {
		return &fakeDriver{
			calendar:  calendarWith("Friday 10 May"),
			advanceOK: true,
			pageText:  "Choisissez votre date",
		}
	}
	candidates := []models.Candidate{{Label: "Friday 10 May"}}

	optimistic := newTestMachine(newDriver(), models.ServiceAny).
		ProbeAll(candidates, PolicyOptimistic)
	assert.Equal(t, []string{"Friday 10 May"}, optimistic.Available)

	strict := newTestMachine(newDriver(), models.ServiceAny).
		ProbeAll(candidates, PolicyStrict)
	require.Len(t, strict.Results, 1)
	assert.Equal(t, models.OutcomeIndeterminate, strict.Results[0].Outcome)
	assert.Empty(t, strict.Available)
}
