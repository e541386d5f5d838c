package analysis

import (
	"slices"
	"time"
)

// PeriodRecord 表示一个周期及其是否完成
type PeriodRecord struct {
	Start     time.Time
	Satisfied bool
}

// End 返回周期最后一天（含）
func (r PeriodRecord) End(periodicity int) time.Time {
	return r.Start.AddDate(0, 0, periodicity-1)
}

// Window 描述统计区间 [Start, Today]。
// Days 为 0 表示统计全部历史，此时 Start 为零值。
type Window struct {
	Start time.Time
	Today time.Time
	Days  int
}

// NewWindow 以 today 为终点向前回溯 days 天
func NewWindow(today time.Time, days int) Window {
	today = day(today)
	if days <= 0 {
		return Window{Today: today}
	}
	return Window{Start: today.AddDate(0, 0, -days), Today: today, Days: days}
}

// Contains 判断日期是否落在区间内
func (w Window) Contains(t time.Time) bool {
	t = day(t)
	if t.After(w.Today) {
		return false
	}
	return w.Start.IsZero() || !t.Before(w.Start)
}

// Reconcile 将打卡日期按周期分桶。
//
// dates 为打卡日期（可重复、可无序），first 为该习惯全部历史中最早的打卡日期，
// hasFirst 为 false 表示从未打卡。周期从 origin 开始每 periodicity 天一个，
// 直到周期起点晚于 window.Today；周期内任意一天有打卡即视为完成。
//
// origin 规则：习惯的首次打卡落在区间内时，以首次打卡日为起点；
// 否则以区间起点为起点。
func Reconcile(periodicity int, dates []time.Time, first time.Time, hasFirst bool, window Window) []PeriodRecord {
	if !hasFirst {
		return []PeriodRecord{}
	}

	days := checkOffDays(dates, window)
	if len(days) == 0 {
		return lapsed(window)
	}

	origin := window.Start
	if window.Start.IsZero() || !day(first).Before(window.Start) {
		origin = fromDayNumber(days[0])
	}

	today := day(window.Today)
	records := make([]PeriodRecord, 0, periodCount(origin, today, periodicity))
	for start := origin; !start.After(today); start = start.AddDate(0, 0, periodicity) {
		records = append(records, PeriodRecord{
			Start:     start,
			Satisfied: anyWithin(days, dayNumber(start), dayNumber(start)+int64(periodicity)-1),
		})
	}
	return records
}

// lapsed 为区间内无打卡的习惯生成 window.Days 个未完成记录，每天一个。
// 全量历史模式下没有区间长度，返回空序列。
func lapsed(window Window) []PeriodRecord {
	records := make([]PeriodRecord, 0, window.Days)
	for i := 0; i < window.Days; i++ {
		records = append(records, PeriodRecord{Start: window.Start.AddDate(0, 0, i)})
	}
	return records
}

func periodCount(origin, today time.Time, periodicity int) int {
	delta := dayNumber(today) - dayNumber(origin)
	if delta < 0 {
		return 0
	}
	return int((delta + int64(periodicity)) / int64(periodicity))
}

// checkOffDays 返回区间内去重并升序的日序号
func checkOffDays(dates []time.Time, window Window) []int64 {
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		if window.Contains(d) {
			days = append(days, dayNumber(day(d)))
		}
	}
	slices.Sort(days)
	return slices.Compact(days)
}

func anyWithin(days []int64, from, to int64) bool {
	i, _ := slices.BinarySearch(days, from)
	return i < len(days) && days[i] <= to
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayNumber(t time.Time) int64 {
	return t.Unix() / 86400
}

func fromDayNumber(n int64) time.Time {
	return time.Unix(n*86400, 0).UTC()
}
