// Package runner orchestrates one probe-and-report invocation: load
// run state, short-circuit if done, probe the calendar, persist, notify.
package runner

import (
	"time"

	"go.uber.org/zap"

	"grands-buffets-watch/internal/browser"
	"grands-buffets-watch/internal/config"
	"grands-buffets-watch/internal/models"
	"grands-buffets-watch/internal/notifier"
	"grands-buffets-watch/internal/probe"
	"grands-buffets-watch/internal/report"
	"grands-buffets-watch/internal/state"
)

// Runner executes invocations. Errors never escape RunOnce: whatever
// happens inside a run is logged, state is saved, and the process can
// exit cleanly so the external invoker never sees a failure.
type Runner struct {
	cfg       *config.Config
	store     state.Store
	notifier  notifier.Dispatcher
	scheduler *report.Scheduler
	log       *zap.SugaredLogger

	// NewDriver launches the browsing surface for one run. Tests swap
	// this for a fake.
	NewDriver func() (probe.Driver, func(), error)
	// Now is the invocation clock.
	Now func() time.Time
}

// New wires a runner with the real browser driver.
func New(cfg *config.Config, store state.Store, dispatcher notifier.Dispatcher, log *zap.SugaredLogger) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Runner{
		cfg:       cfg,
		store:     store,
		notifier:  dispatcher,
		scheduler: report.NewScheduler(),
		log:       log,
		Now:       time.Now,
	}
	r.NewDriver = func() (probe.Driver, func(), error) {
		client, err := browser.NewClient(log)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Start(cfg.Monitor.Headless); err != nil {
			client.Close()
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	}
	return r
}

// RunOnce performs a single probe-and-report cycle and reports whether
// a reservation has been found (now or on an earlier run).
func (r *Runner) RunOnce() bool {
	now := r.Now()
	st := r.store.Load()

	if st.ReservationFound {
		r.log.Infof("🛑 Reservation already found. Nothing to probe.")
		r.log.Infof("💡 To restart monitoring, reset the run state file.")
		return true
	}

	st.MarkRun(now)
	r.log.Infof("🚀 Starting check #%d at %s", st.TotalRuns, now.Format(models.RunTimeLayout))
	r.log.Infof("🔍 Looking for: %s guests, Friday/Saturday %s, next %d months",
		r.cfg.Reservation.Guests, r.cfg.Reservation.Service, r.cfg.Reservation.MonthsAhead)

	batch := r.probeOnce()

	if len(batch.Available) > 0 {
		r.log.Infof("🎉🎉🎉 FOUND %d AVAILABLE DATES! 🎉🎉🎉", len(batch.Available))
		for _, date := range batch.Available {
			r.log.Infof("  ✅ %s", date)
		}

		st.SuccessfulFinds++
		st.ReservationFound = true

		// The terminal flag must survive even if notification blows up.
		if err := r.store.Save(st); err != nil {
			r.log.Errorf("⚠️ could not save state: %v", err)
		}

		if r.sendAlert(batch.Available) {
			r.log.Infof("✅ Alert emails sent")
		} else {
			r.log.Warnf("⚠️ Failed to send alert emails")
		}
		return true
	}

	r.log.Infof("😔 No %s availability on Friday/Saturday in the next %d months. Checked %d times so far.",
		r.cfg.Reservation.Service, r.cfg.Reservation.MonthsAhead, st.TotalRuns)

	if err := r.store.Save(st); err != nil {
		r.log.Errorf("⚠️ could not save state: %v", err)
	}

	r.maybeSendReport(st)
	return false
}

// probeOnce owns the browser lifetime for one invocation. A panic
// anywhere inside is a critical run failure: logged, swallowed, empty
// batch returned so state still gets saved.
func (r *Runner) probeOnce() (batch models.BatchReport) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorf("❌ Critical error during check: %v", rec)
			batch = models.BatchReport{CheckedAt: r.Now()}
		}
	}()

	driver, closeDriver, err := r.NewDriver()
	if err != nil {
		r.log.Errorf("❌ could not start browser: %v", err)
		return models.BatchReport{CheckedAt: r.Now()}
	}
	defer closeDriver()

	machine := r.buildMachine(driver)

	r.log.Infof("🌐 Loading reservation page...")
	candidates, stats, err := machine.GatherCandidates()
	if err != nil {
		r.log.Errorf("❌ %v", err)
		return models.BatchReport{CheckedAt: r.Now()}
	}

	r.log.Infof("📊 Diagnostics: %d buttons, %d day-matching, %d enabled, %d in horizon, %d candidates",
		stats.Total, stats.DayMatching, stats.Enabled, stats.InHorizon, stats.Final)

	if len(candidates) == 0 {
		r.log.Infof("⚠️ No Friday/Saturday %s dates found in the next %d months",
			r.cfg.Reservation.Service, r.cfg.Reservation.MonthsAhead)
		return models.BatchReport{CheckedAt: r.Now()}
	}

	r.log.Infof("📋 Will check %d dates", len(candidates))
	return machine.ProbeAll(candidates, r.cfg.Reservation.IndeterminatePolicy)
}

func (r *Runner) buildMachine(driver probe.Driver) *probe.Machine {
	filter := &probe.Filter{
		DayKeywords:   r.cfg.Reservation.DayKeywords,
		HorizonMonths: r.cfg.Reservation.MonthsAhead,
		Now:           r.Now,
	}
	machine := probe.NewMachine(driver, filter, probe.NewDetector(), r.log)
	machine.ReservationURL = r.cfg.Reservation.URL
	machine.Guests = r.cfg.Reservation.Guests
	machine.Window = r.cfg.Reservation.Service
	machine.ScreenshotDir = r.cfg.Reservation.ScreenshotDir
	return machine
}

// sendAlert notifies the main recipient and the monitoring address.
// Reaching either one counts as delivered.
func (r *Runner) sendAlert(dates []string) bool {
	c := r.criteria()
	sent := r.notifier.Send(notifier.AvailabilityAlert(dates, c, r.cfg.Email.To))
	if r.cfg.Email.MonitoringTo != "" && r.cfg.Email.MonitoringTo != r.cfg.Email.To {
		if r.notifier.Send(notifier.AvailabilityAlert(dates, c, r.cfg.Email.MonitoringTo)) {
			sent = true
		}
	}
	return sent
}

// maybeSendReport emits the periodic status report when due. The
// timestamp only advances after a successful dispatch.
func (r *Runner) maybeSendReport(st *models.RunState) {
	now := r.Now()
	if !r.scheduler.IsDue(st, now) {
		return
	}

	r.log.Infof("📧 Sending periodic status report...")
	ev := notifier.StatusReport(st, r.criteria(), now, r.cfg.Email.MonitoringTo)
	if !r.notifier.Send(ev) {
		return
	}

	st.MarkReport(now)
	if err := r.store.Save(st); err != nil {
		r.log.Errorf("⚠️ could not save state after report: %v", err)
	}
}

func (r *Runner) criteria() notifier.Criteria {
	return notifier.Criteria{
		URL:         r.cfg.Reservation.URL,
		Guests:      r.cfg.Reservation.Guests,
		Service:     r.cfg.Reservation.Service,
		MonthsAhead: r.cfg.Reservation.MonthsAhead,
	}
}
