package election

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePeriod(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("missing bounds mean always active", func(t *testing.T) {
		eval := EvaluatePeriod(time.Now(), nil, nil)
		assert.Equal(t, PeriodActive, eval.Period, "open-ended window should be active")
		assert.Nil(t, eval.Remaining, "open-ended window has no countdown")

		eval = EvaluatePeriod(time.Now(), &start, nil)
		assert.Equal(t, PeriodActive, eval.Period)
	})

	t.Run("before start is upcoming", func(t *testing.T) {
		now := start.Add(-1 * time.Second)
		eval := EvaluatePeriod(now, &start, &end)
		assert.Equal(t, PeriodUpcoming, eval.Period)
		assert.Nil(t, eval.Remaining)
	})

	t.Run("exactly at start is active", func(t *testing.T) {
		eval := EvaluatePeriod(start, &start, &end)
		assert.Equal(t, PeriodActive, eval.Period)
	})

	t.Run("exactly at end is still active", func(t *testing.T) {
		eval := EvaluatePeriod(end, &start, &end)
		assert.Equal(t, PeriodActive, eval.Period, "the end bound is inclusive")
	})

	t.Run("after end is ended", func(t *testing.T) {
		now := end.Add(1 * time.Second)
		eval := EvaluatePeriod(now, &start, &end)
		assert.Equal(t, PeriodEnded, eval.Period)
		assert.Nil(t, eval.Remaining)
	})
}

func TestEvaluatePeriodRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("remaining truncates to whole days and hours", func(t *testing.T) {
		// 2 days, 5 hours and 59 minutes left
		now := end.Add(-(53*time.Hour + 59*time.Minute))
		eval := EvaluatePeriod(now, &start, &end)
		require.NotNil(t, eval.Remaining)
		assert.Equal(t, 2, eval.Remaining.Days)
		assert.Equal(t, 5, eval.Remaining.Hours, "partial hours are never rounded up")
	})

	t.Run("less than an hour left is zero", func(t *testing.T) {
		now := end.Add(-30 * time.Minute)
		eval := EvaluatePeriod(now, &start, &end)
		require.NotNil(t, eval.Remaining)
		assert.Equal(t, 0, eval.Remaining.Days)
		assert.Equal(t, 0, eval.Remaining.Hours)
	})

	t.Run("string format", func(t *testing.T) {
		r := Remaining{Days: 2, Hours: 5}
		assert.Equal(t, "2d 5h", r.String())
	})
}
