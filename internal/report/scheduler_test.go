package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"grands-buffets-watch/internal/models"
)

func TestScheduler_IsDue(t *testing.T) {
	s := NewScheduler()
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

	t.Run("never reported", func(t *testing.T) {
		assert.True(t, s.IsDue(&models.RunState{}, now))
	})

	t.Run("just reported", func(t *testing.T) {
		st := &models.RunState{}
		st.MarkReport(now)
		assert.False(t, s.IsDue(st, now))
		assert.False(t, s.IsDue(st, now.Add(5*time.Hour+59*time.Minute)))
	})

	t.Run("cadence elapsed", func(t *testing.T) {
		st := &models.RunState{}
		st.MarkReport(now)
		assert.True(t, s.IsDue(st, now.Add(6*time.Hour)))
		assert.True(t, s.IsDue(st, now.Add(48*time.Hour)))
	})

	t.Run("unparseable timestamp is due", func(t *testing.T) {
		garbage := "not-a-time"
		assert.True(t, s.IsDue(&models.RunState{LastReportTime: &garbage}, now))
	})
}

func TestScheduler_CustomInterval(t *testing.T) {
	s := &Scheduler{Interval: time.Hour}
	now := time.Now()

	st := &models.RunState{}
	st.MarkReport(now.Add(-30 * time.Minute))
	assert.False(t, s.IsDue(st, now))

	st.MarkReport(now.Add(-2 * time.Hour))
	assert.True(t, s.IsDue(st, now))
}
