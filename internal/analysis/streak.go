package analysis

import "time"

// LongestStreak 返回最长的连续完成周期数。
// 未完成时结算一次，序列结束时再结算一次，仍在进行中的连续完成同样计入。
func LongestStreak(records []PeriodRecord) int {
	streak, longest := 0, 0
	for _, record := range records {
		if record.Satisfied {
			streak++
			continue
		}
		longest = max(longest, streak)
		streak = 0
	}
	return max(longest, streak)
}

// ResetCount 返回未完成的周期数，任何一个未完成周期都算一次中断
func ResetCount(records []PeriodRecord) int {
	resets := 0
	for _, record := range records {
		if !record.Satisfied {
			resets++
		}
	}
	return resets
}

// SatisfiedCount 返回已完成的周期数
func SatisfiedCount(records []PeriodRecord) int {
	return len(records) - ResetCount(records)
}

// CurrentStreak 返回截至今天的连续完成周期数。
// 包含今天的最后一个周期尚未结束，未完成时不打断连续记录。
func CurrentStreak(records []PeriodRecord, periodicity int, today time.Time) int {
	end := len(records)
	if end > 0 {
		last := records[end-1]
		if !last.Satisfied && !last.End(periodicity).Before(day(today)) {
			end--
		}
	}

	streak := 0
	for i := end - 1; i >= 0 && records[i].Satisfied; i-- {
		streak++
	}
	return streak
}

// CompletionRate 返回完成周期占比，空序列为 0
func CompletionRate(records []PeriodRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return float64(SatisfiedCount(records)) / float64(len(records))
}
