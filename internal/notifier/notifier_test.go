package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grands-buffets-watch/internal/config"
	"grands-buffets-watch/internal/models"
)

func testCriteria() Criteria {
	return Criteria{
		URL:         "https://reservation.example.test/contact",
		Guests:      "7",
		Service:     models.ServiceDinner,
		MonthsAhead: 4,
	}
}

func TestEmailNotifier_DisabledWithoutCredentials(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{}, nil)

	assert.False(t, n.Enabled())
	assert.False(t, n.Send(models.NotificationEvent{
		Subject:   "x",
		Body:      "y",
		Recipient: "someone@example.com",
	}), "sending without credentials fails quietly")
	assert.Error(t, n.TestConnection())
}

func TestEmailNotifier_NoRecipient(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{
		From: "from@example.com",
		SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587, Password: "pw"},
	}, nil)

	require.True(t, n.Enabled())
	assert.False(t, n.Send(models.NotificationEvent{Subject: "x", Body: "y"}))
}

func TestEmailNotifier_BuildMessage(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{From: "from@example.com"}, nil)

	msg := n.buildMessage(models.NotificationEvent{
		Subject:   "Hello",
		Body:      "line one\nline two\n",
		Recipient: "to@example.com",
	})

	assert.Contains(t, msg, "From: from@example.com\r\n")
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, len(msg) > 0 && msg[len(msg)-1] == '\n')
	assert.Contains(t, msg, "\r\n\r\nline one", "blank line separates headers from body")
}

func TestAvailabilityAlert(t *testing.T) {
	ev := AvailabilityAlert([]string{"Friday 10 May", "Saturday 11 May"}, testCriteria(), "me@example.com")

	assert.Equal(t, "me@example.com", ev.Recipient)
	assert.Contains(t, ev.Subject, "Availability Found")
	assert.Contains(t, ev.Body, "  • Friday 10 May\n")
	assert.Contains(t, ev.Body, "  • Saturday 11 May\n")
	assert.Contains(t, ev.Body, "https://reservation.example.test/contact")
	assert.Contains(t, ev.Body, "7 guests, Friday/Saturday dinner, next 4 months")
}

func TestStatusReport(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

	st := &models.RunState{TotalRuns: 17, SuccessfulFinds: 0}
	st.MarkReport(now.Add(-7 * time.Hour))
	run := "2025-03-03 11:55:00"
	st.LastRunTime = &run

	ev := StatusReport(st, testCriteria(), now, "ops@example.com")

	assert.Equal(t, "ops@example.com", ev.Recipient)
	assert.Contains(t, ev.Body, "Total Runs: 17")
	assert.Contains(t, ev.Body, "Last Run: 2025-03-03 11:55:00")
	assert.Contains(t, ev.Body, "Uptime Since Last Report: 7 hours")
	assert.Contains(t, ev.Body, "Reservation Found: No ❌")
	assert.Contains(t, ev.Body, "Running normally")
}

func TestStatusReport_FoundState(t *testing.T) {
	st := &models.RunState{TotalRuns: 99, SuccessfulFinds: 1, ReservationFound: true}

	ev := StatusReport(st, testCriteria(), time.Now(), "ops@example.com")

	assert.Contains(t, ev.Body, "Reservation Found: Yes ✅")
	assert.Contains(t, ev.Body, "watcher is stopped")
	assert.Contains(t, ev.Body, "Uptime Since Last Report: N/A")
}
