package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func satisfied(records []PeriodRecord) []bool {
	out := make([]bool, 0, len(records))
	for _, r := range records {
		out = append(out, r.Satisfied)
	}
	return out
}

func TestReconcileNeverStarted(t *testing.T) {
	records := Reconcile(1, nil, time.Time{}, false, NewWindow(date(2022, 4, 1), 30))
	require.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 0, LongestStreak(records))
	assert.Equal(t, 0, ResetCount(records))
}

func TestReconcileDailyFullHistory(t *testing.T) {
	dates := []time.Time{date(2022, 3, 1), date(2022, 3, 2), date(2022, 3, 4)}
	records := Reconcile(1, dates, date(2022, 3, 1), true, NewWindow(date(2022, 3, 5), 0))

	require.Len(t, records, 5)
	assert.Equal(t, date(2022, 3, 1), records[0].Start)
	assert.Equal(t, date(2022, 3, 5), records[4].Start)
	assert.Equal(t, []bool{true, true, false, true, false}, satisfied(records))
}

func TestReconcileWeeklyAnyDayInPeriod(t *testing.T) {
	// 周期 3/7-3/13, 3/14-3/20, 3/21-3/27, 3/28-4/3
	dates := []time.Time{date(2022, 3, 7), date(2022, 3, 19), date(2022, 3, 28)}
	records := Reconcile(7, dates, date(2022, 3, 7), true, NewWindow(date(2022, 4, 2), 0))

	require.Len(t, records, 4)
	assert.Equal(t, []bool{true, true, false, true}, satisfied(records))
	assert.Equal(t, date(2022, 4, 3), records[3].End(7))
}

func TestReconcileDuplicatesAreIdempotent(t *testing.T) {
	dates := []time.Time{date(2022, 3, 1), date(2022, 3, 1), date(2022, 3, 3), date(2022, 3, 2)}
	records := Reconcile(7, dates, date(2022, 3, 1), true, NewWindow(date(2022, 3, 3), 0))

	require.Len(t, records, 1)
	assert.True(t, records[0].Satisfied)
}

func TestReconcileIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2022, 3, 2, 23, 59, 0, 0, time.UTC)
	records := Reconcile(1, []time.Time{late}, late, true, NewWindow(time.Date(2022, 3, 3, 8, 0, 0, 0, time.UTC), 0))

	require.Len(t, records, 2)
	assert.Equal(t, []bool{true, false}, satisfied(records))
}

func TestReconcileOriginInsideWindow(t *testing.T) {
	today := date(2022, 4, 10)
	dates := []time.Time{date(2022, 4, 5), date(2022, 4, 6)}

	records := Reconcile(1, dates, date(2022, 4, 5), true, NewWindow(today, 30))

	require.Len(t, records, 6)
	assert.Equal(t, date(2022, 4, 5), records[0].Start)
}

func TestReconcileOriginBeforeWindow(t *testing.T) {
	today := date(2022, 4, 10)
	window := NewWindow(today, 5)
	dates := []time.Time{date(2022, 4, 6), date(2022, 4, 7)}

	records := Reconcile(1, dates, date(2022, 1, 1), true, window)

	require.Len(t, records, 6)
	assert.Equal(t, date(2022, 4, 5), records[0].Start)
	assert.Equal(t, []bool{false, true, true, false, false, false}, satisfied(records))
}

func TestReconcileLapsedInsideWindow(t *testing.T) {
	today := date(2022, 6, 24)
	records := Reconcile(7, nil, date(2022, 2, 1), true, NewWindow(today, 30))

	require.Len(t, records, 30)
	assert.Equal(t, 30, ResetCount(records))
	assert.Equal(t, date(2022, 5, 25), records[0].Start)
	assert.Equal(t, date(2022, 6, 23), records[29].Start)
}

func TestReconcileFutureOnlyFullHistory(t *testing.T) {
	records := Reconcile(1, nil, date(2030, 1, 1), true, NewWindow(date(2022, 6, 24), 0))
	assert.Empty(t, records)
}

func TestReconcileDropsDatesAfterToday(t *testing.T) {
	dates := []time.Time{date(2022, 3, 1), date(2022, 3, 9)}
	records := Reconcile(7, dates, date(2022, 3, 1), true, NewWindow(date(2022, 3, 8), 0))

	require.Len(t, records, 2)
	assert.Equal(t, []bool{true, false}, satisfied(records))
}

func TestReconcileSequenceLength(t *testing.T) {
	origin := date(2022, 1, 1)
	for _, periodicity := range []int{1, 2, 3, 7, 10} {
		for offset := 0; offset < 40; offset++ {
			today := origin.AddDate(0, 0, offset)
			records := Reconcile(periodicity, []time.Time{origin}, origin, true, NewWindow(today, 0))

			want := (offset + periodicity) / periodicity
			require.Len(t, records, want, "periodicity=%d offset=%d", periodicity, offset)
			assert.Equal(t, len(records), ResetCount(records)+SatisfiedCount(records))
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(date(2022, 3, 10), 3)
	assert.Equal(t, date(2022, 3, 7), w.Start)
	assert.True(t, w.Contains(date(2022, 3, 7)))
	assert.True(t, w.Contains(date(2022, 3, 10)))
	assert.False(t, w.Contains(date(2022, 3, 6)))
	assert.False(t, w.Contains(date(2022, 3, 11)))

	full := NewWindow(date(2022, 3, 10), 0)
	assert.True(t, full.Start.IsZero())
	assert.True(t, full.Contains(date(1999, 1, 1)))
}
