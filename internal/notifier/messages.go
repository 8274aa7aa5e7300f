package notifier

import (
	"fmt"
	"strings"
	"time"

	"grands-buffets-watch/internal/models"
)

// Criteria summarizes the active search, for message bodies.
type Criteria struct {
	URL         string
	Guests      string
	Service     models.ServiceWindow
	MonthsAhead int
}

func (c Criteria) line() string {
	return fmt.Sprintf("%s guests, Friday/Saturday %s, next %d months", c.Guests, c.Service, c.MonthsAhead)
}

// AvailabilityAlert builds the message sent the moment real
// availability is detected.
func AvailabilityAlert(dates []string, c Criteria, recipient string) models.NotificationEvent {
	var sb strings.Builder
	sb.WriteString("🚨 REAL availability detected at Les Grands Buffets!\n\n")
	sb.WriteString("Dates:\n")
	for _, date := range dates {
		sb.WriteString(fmt.Sprintf("  • %s\n", date))
	}
	sb.WriteString(fmt.Sprintf("\n🔗 Book immediately:\n%s\n\n", c.URL))
	sb.WriteString("⚠️ The watcher will now stop probing until its state is reset.\n")
	sb.WriteString(fmt.Sprintf("Checked for: %s\n", c.line()))

	return models.NotificationEvent{
		Subject:   "🍽️ Les Grands Buffets — Availability Found!",
		Body:      sb.String(),
		Recipient: recipient,
	}
}

// StatusReport builds the periodic operator report.
func StatusReport(st *models.RunState, c Criteria, now time.Time, recipient string) models.NotificationEvent {
	uptime := "N/A"
	if last, ok := st.LastReport(); ok {
		uptime = fmt.Sprintf("%d hours", int(now.Sub(last).Hours()))
	}

	lastRun := "N/A"
	if st.LastRunTime != nil {
		lastRun = *st.LastRunTime
	}

	found := "No ❌"
	status := "✅ Running normally"
	if st.ReservationFound {
		found = "Yes ✅"
		status = "🎉 SUCCESS - watcher is stopped"
	}

	rule := strings.Repeat("=", 50)
	var sb strings.Builder
	sb.WriteString("📊 Les Grands Buffets Monitoring Report\n")
	sb.WriteString(rule + "\n\n")
	sb.WriteString(fmt.Sprintf("⏰ Report Time: %s\n", now.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("📈 Total Runs: %d\n", st.TotalRuns))
	sb.WriteString(fmt.Sprintf("✅ Successful Finds: %d\n", st.SuccessfulFinds))
	sb.WriteString(fmt.Sprintf("🕐 Last Run: %s\n", lastRun))
	sb.WriteString(fmt.Sprintf("⏳ Uptime Since Last Report: %s\n", uptime))
	sb.WriteString(fmt.Sprintf("🎯 Reservation Found: %s\n\n", found))
	sb.WriteString("🔍 Search Criteria:\n")
	sb.WriteString("  • Days: Friday & Saturday only\n")
	sb.WriteString(fmt.Sprintf("  • Service: %s\n", c.Service))
	sb.WriteString(fmt.Sprintf("  • Guests: %s\n", c.Guests))
	sb.WriteString(fmt.Sprintf("  • Time Range: Next %d months\n\n", c.MonthsAhead))
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Status: %s\n\n", status))
	sb.WriteString("Next report in 6 hours (unless reservation found).\n")

	return models.NotificationEvent{
		Subject:   "📊 Reservation Monitor - 6 Hour Report",
		Body:      sb.String(),
		Recipient: recipient,
	}
}
