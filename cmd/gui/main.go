package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grands-buffets-watch/internal/config"
	"grands-buffets-watch/internal/models"
	"grands-buffets-watch/internal/notifier"
	"grands-buffets-watch/internal/probe"
	"grands-buffets-watch/internal/runner"
	"grands-buffets-watch/internal/state"
)

type GUI struct {
	app        fyne.App
	window     fyne.Window
	config     *config.Config
	configPath string

	// UI components
	guestsEntry       *widget.Entry
	serviceSelect     *widget.Select
	monthsEntry       *widget.Entry
	intervalEntry     *widget.Entry
	policySelect      *widget.Select
	emailFromEntry    *widget.Entry
	emailToEntry      *widget.Entry
	monitoringToEntry *widget.Entry
	smtpPassEntry     *widget.Entry
	headlessCheck     *widget.Check

	statusLabel *widget.Label
	logOutput   *widget.Entry

	isMonitoring binding.Bool
	stopChan     chan struct{}
}

func main() {
	gui := &GUI{isMonitoring: binding.NewBool()}

	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	gui.config = cfg
	gui.configPath = configPath

	gui.app = app.New()
	gui.app.Settings().SetTheme(&watchTheme{})
	gui.window = gui.app.NewWindow("Grands Buffets Watch")
	gui.window.Resize(fyne.NewSize(800, 600))

	gui.window.SetContent(gui.buildUI())
	gui.loadConfigToUI()

	gui.window.SetOnClosed(func() {
		if monitoring, _ := gui.isMonitoring.Get(); monitoring {
			gui.stopMonitoring()
			time.Sleep(2 * time.Second) // let the browser shut down
		}
	})

	gui.window.ShowAndRun()
}

func (g *GUI) buildUI() fyne.CanvasObject {
	return container.NewAppTabs(
		container.NewTabItem("Watcher", g.buildWatcherTab()),
		container.NewTabItem("Settings", g.buildSettingsTab()),
	)
}

func (g *GUI) buildWatcherTab() fyne.CanvasObject {
	g.statusLabel = widget.NewLabel("Idle")
	g.logOutput = widget.NewMultiLineEntry()
	g.logOutput.Disable()

	startBtn := widget.NewButton("Start watching", nil)
	startBtn.OnTapped = func() {
		if monitoring, _ := g.isMonitoring.Get(); monitoring {
			g.stopMonitoring()
			startBtn.SetText("Start watching")
			g.statusLabel.SetText("Idle")
			return
		}
		g.startMonitoring()
		startBtn.SetText("Stop watching")
	}

	resetBtn := widget.NewButton("Reset run state", func() {
		store := state.NewFileStore(g.config.State.File, nil)
		if err := store.Reset(); err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		g.appendLog("Run state cleared, watcher re-armed\n")
	})

	return container.NewBorder(
		container.NewVBox(g.statusLabel, container.NewHBox(startBtn, resetBtn)),
		nil, nil, nil,
		g.logOutput,
	)
}

func (g *GUI) buildSettingsTab() fyne.CanvasObject {
	g.guestsEntry = widget.NewEntry()
	g.serviceSelect = widget.NewSelect([]string{"dinner", "lunch", "any"}, nil)
	g.monthsEntry = widget.NewEntry()
	g.intervalEntry = widget.NewEntry()
	g.policySelect = widget.NewSelect([]string{"optimistic", "strict"}, nil)
	g.emailFromEntry = widget.NewEntry()
	g.emailToEntry = widget.NewEntry()
	g.monitoringToEntry = widget.NewEntry()
	g.smtpPassEntry = widget.NewPasswordEntry()
	g.headlessCheck = widget.NewCheck("Headless browser", nil)

	form := widget.NewForm(
		widget.NewFormItem("Guests", g.guestsEntry),
		widget.NewFormItem("Service", g.serviceSelect),
		widget.NewFormItem("Months ahead", g.monthsEntry),
		widget.NewFormItem("Check interval (s)", g.intervalEntry),
		widget.NewFormItem("Indeterminate policy", g.policySelect),
		widget.NewFormItem("Email from", g.emailFromEntry),
		widget.NewFormItem("Alert recipient", g.emailToEntry),
		widget.NewFormItem("Monitoring recipient", g.monitoringToEntry),
		widget.NewFormItem("SMTP password", g.smtpPassEntry),
		widget.NewFormItem("", g.headlessCheck),
	)

	saveBtn := widget.NewButton("Save settings", func() {
		g.applyUIToConfig()
		if err := config.Save(g.configPath, g.config); err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		g.appendLog("Settings saved to " + g.configPath + "\n")
	})

	return container.NewVBox(form, saveBtn)
}

func (g *GUI) loadConfigToUI() {
	g.guestsEntry.SetText(g.config.Reservation.Guests)
	g.serviceSelect.SetSelected(string(g.config.Reservation.Service))
	g.monthsEntry.SetText(strconv.Itoa(g.config.Reservation.MonthsAhead))
	g.intervalEntry.SetText(strconv.Itoa(g.config.Monitor.Interval))
	g.policySelect.SetSelected(string(g.config.Reservation.IndeterminatePolicy))
	g.emailFromEntry.SetText(g.config.Email.From)
	g.emailToEntry.SetText(g.config.Email.To)
	g.monitoringToEntry.SetText(g.config.Email.MonitoringTo)
	g.smtpPassEntry.SetText(g.config.Email.SMTP.Password)
	g.headlessCheck.SetChecked(g.config.Monitor.Headless)
}

func (g *GUI) applyUIToConfig() {
	g.config.Reservation.Guests = g.guestsEntry.Text
	g.config.Reservation.Service = models.ServiceWindow(g.serviceSelect.Selected)
	if v, err := strconv.Atoi(g.monthsEntry.Text); err == nil {
		g.config.Reservation.MonthsAhead = v
	}
	if v, err := strconv.Atoi(g.intervalEntry.Text); err == nil {
		g.config.Monitor.Interval = v
	}
	g.config.Reservation.IndeterminatePolicy = probe.IndeterminatePolicy(g.policySelect.Selected)
	g.config.Email.From = g.emailFromEntry.Text
	g.config.Email.To = g.emailToEntry.Text
	g.config.Email.MonitoringTo = g.monitoringToEntry.Text
	g.config.Email.SMTP.Password = g.smtpPassEntry.Text
	g.config.Monitor.Headless = g.headlessCheck.Checked
}

func (g *GUI) startMonitoring() {
	g.applyUIToConfig()
	g.stopChan = make(chan struct{})
	g.isMonitoring.Set(true)
	g.statusLabel.SetText("Watching...")

	log := g.newLogger()
	store := state.NewFileStore(g.config.State.File, log)
	dispatcher := notifier.NewEmailNotifier(g.config.Email, log)
	r := runner.New(g.config, store, dispatcher, log)

	go func() {
		interval := time.Duration(g.config.Monitor.Interval) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if r.RunOnce() {
			g.statusLabel.SetText("🎉 Reservation found!")
			g.isMonitoring.Set(false)
			return
		}

		for {
			select {
			case <-ticker.C:
				if r.RunOnce() {
					g.statusLabel.SetText("🎉 Reservation found!")
					g.isMonitoring.Set(false)
					return
				}
			case <-g.stopChan:
				return
			}
		}
	}()
}

func (g *GUI) stopMonitoring() {
	if g.stopChan != nil {
		close(g.stopChan)
		g.stopChan = nil
	}
	g.isMonitoring.Set(false)
}

func (g *GUI) appendLog(line string) {
	text := g.logOutput.Text + line
	g.logOutput.SetText(text)
	g.logOutput.CursorRow = strings.Count(text, "\n")
}

// newLogger routes runner output into the log pane.
func (g *GUI) newLogger() *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(&guiLogWriter{gui: g}), zapcore.InfoLevel)
	return zap.New(core).Sugar()
}

type guiLogWriter struct {
	gui *GUI
}

func (w *guiLogWriter) Write(p []byte) (int, error) {
	w.gui.appendLog(string(p))
	return len(p), nil
}
