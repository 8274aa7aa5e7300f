package runner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grands-buffets-watch/internal/config"
	"grands-buffets-watch/internal/models"
	"grands-buffets-watch/internal/probe"
	"grands-buffets-watch/internal/state"
)

type fakeDriver struct {
	calendar []models.ElementSnapshot
	pageText string
	hasForm  bool
}

func (d *fakeDriver) Navigate(url string) error { return nil }
func (d *fakeDriver) Snapshot() ([]models.ElementSnapshot, error) {
	return d.calendar, nil
}
func (d *fakeDriver) Click(ref models.ElementRef, timeout time.Duration) error { return nil }
func (d *fakeDriver) ClickByText(label string, timeout time.Duration) error {
	if label == "Suivant" {
		return nil
	}
	return errors.New("no such button")
}
func (d *fakeDriver) SelectOption(selector, value string, timeout time.Duration) error { return nil }
func (d *fakeDriver) WaitForIdle(timeout time.Duration) error                          { return nil }
func (d *fakeDriver) VisibleText() (string, error)                                     { return d.pageText, nil }
func (d *fakeDriver) HasAnyElement(selectors ...string) (bool, error)                  { return d.hasForm, nil }
func (d *fakeDriver) Screenshot(path string) error                                     { return nil }

type fakeDispatcher struct {
	fail   bool
	events []models.NotificationEvent
}

func (d *fakeDispatcher) Enabled() bool { return true }
func (d *fakeDispatcher) Send(ev models.NotificationEvent) bool {
	d.events = append(d.events, ev)
	return !d.fail
}

func (d *fakeDispatcher) subjects() []string {
	var out []string
	for _, ev := range d.events {
		out = append(out, ev.Subject)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Reservation: config.ReservationConfig{
			URL:                 "https://reservation.example.test/contact",
			Guests:              "7",
			Service:             models.ServiceAny,
			MonthsAhead:         4,
			DayKeywords:         probe.DefaultDayKeywords,
			IndeterminatePolicy: probe.PolicyStrict,
		},
		Email: config.EmailConfig{
			From:         "watch@example.com",
			To:           "me@example.com",
			MonitoringTo: "ops@example.com",
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
}

func newTestRunner(d *fakeDriver, dispatcher *fakeDispatcher, store state.Store) *Runner {
	r := New(testConfig(), store, dispatcher, nil)
	r.Now = fixedNow
	r.NewDriver = func() (probe.Driver, func(), error) {
		return d, func() {}, nil
	}
	return r
}

func calendar(labels ...string) []models.ElementSnapshot {
	var snapshot []models.ElementSnapshot
	for _, l := range labels {
		snapshot = append(snapshot, models.ElementSnapshot{Text: l, Ref: l})
	}
	return snapshot
}

func TestRunOnce_Find(t *testing.T) {
	d := &fakeDriver{calendar: calendar("Friday 10 May", "Saturday 11 May"), hasForm: true}
	dispatcher := &fakeDispatcher{}
	store := &state.MemoryStore{}

	found := newTestRunner(d, dispatcher, store).RunOnce()
	require.True(t, found)

	st := store.Load()
	assert.Equal(t, 1, st.TotalRuns)
	assert.Equal(t, 1, st.SuccessfulFinds, "one increment per invocation, not per date")
	assert.True(t, st.ReservationFound)

	// Alerts went to both the recipient and the monitoring address.
	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, "me@example.com", dispatcher.events[0].Recipient)
	assert.Equal(t, "ops@example.com", dispatcher.events[1].Recipient)
	assert.Contains(t, dispatcher.events[0].Body, "Friday 10 May")
	assert.Contains(t, dispatcher.events[0].Body, "Saturday 11 May")
}

func TestRunOnce_ShortCircuitAfterFind(t *testing.T) {
	store := &state.MemoryStore{}
	st := store.Load()
	st.TotalRuns = 7
	st.ReservationFound = true
	require.NoError(t, store.Save(st))

	dispatcher := &fakeDispatcher{}
	r := newTestRunner(nil, dispatcher, store)
	driverStarts := 0
	r.NewDriver = func() (probe.Driver, func(), error) {
		driverStarts++
		return nil, nil, errors.New("should not be called")
	}

	assert.True(t, r.RunOnce())
	assert.Zero(t, driverStarts, "zero candidates probed once found")
	assert.Equal(t, 7, store.Load().TotalRuns, "short-circuit does not count as a run")
	assert.Empty(t, dispatcher.events)
}

func TestRunOnce_NoAvailabilitySendsDueReport(t *testing.T) {
	d := &fakeDriver{
		calendar: calendar("Friday 10 May"),
		pageText: "le restaurant est complet",
	}
	dispatcher := &fakeDispatcher{}
	store := &state.MemoryStore{}

	found := newTestRunner(d, dispatcher, store).RunOnce()
	require.False(t, found)

	st := store.Load()
	assert.Equal(t, 1, st.TotalRuns)
	assert.Zero(t, st.SuccessfulFinds)
	assert.False(t, st.ReservationFound)

	// First invocation ever: the report is due immediately.
	require.Len(t, dispatcher.events, 1)
	assert.Contains(t, dispatcher.events[0].Subject, "6 Hour Report")
	assert.Equal(t, "ops@example.com", dispatcher.events[0].Recipient)

	last, ok := st.LastReport()
	require.True(t, ok)
	assert.True(t, last.Equal(fixedNow()))
}

func TestRunOnce_ReportNotDue(t *testing.T) {
	d := &fakeDriver{calendar: calendar("Friday 10 May"), pageText: "complet pour ce service"}
	dispatcher := &fakeDispatcher{}
	store := &state.MemoryStore{}

	st := store.Load()
	st.MarkReport(fixedNow().Add(-time.Hour))
	require.NoError(t, store.Save(st))

	newTestRunner(d, dispatcher, store).RunOnce()

	for _, subject := range dispatcher.subjects() {
		assert.False(t, strings.Contains(subject, "Report"), "no report inside the cadence window")
	}
}

func TestRunOnce_FailedReportDoesNotAdvanceTimestamp(t *testing.T) {
	d := &fakeDriver{calendar: calendar("Friday 10 May"), pageText: "aucune disponibilité"}
	dispatcher := &fakeDispatcher{fail: true}
	store := &state.MemoryStore{}

	newTestRunner(d, dispatcher, store).RunOnce()

	st := store.Load()
	assert.Nil(t, st.LastReportTime, "last_report_time only advances on successful dispatch")
	assert.Equal(t, 1, st.TotalRuns, "state still saved")
}

func TestRunOnce_DriverFailureIsNonFatal(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	store := &state.MemoryStore{}
	r := newTestRunner(nil, dispatcher, store)
	r.NewDriver = func() (probe.Driver, func(), error) {
		return nil, nil, errors.New("chromium not installed")
	}

	found := r.RunOnce()

	assert.False(t, found)
	assert.Equal(t, 1, store.Load().TotalRuns, "the run is still recorded")
}

func TestRunOnce_IndeterminateUnderStrictPolicy(t *testing.T) {
	// Neither a booking form nor a fully-booked phrase.
	d := &fakeDriver{calendar: calendar("Friday 10 May"), pageText: "choose your date"}
	dispatcher := &fakeDispatcher{}
	store := &state.MemoryStore{}

	found := newTestRunner(d, dispatcher, store).RunOnce()

	assert.False(t, found, "strict policy does not count indeterminate probes")
	assert.False(t, store.Load().ReservationFound)
}
