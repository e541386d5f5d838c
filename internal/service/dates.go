package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout 是所有外部输入输出使用的日期格式
const DateLayout = "2006-01-02"

// Clock 返回当前时间，测试中可替换
type Clock func() time.Time

// SystemClock 使用本地时间
func SystemClock() time.Time {
	return time.Now()
}

// Day 取 t 所在的本地日历日，并表示为该日 UTC 零点。
// 存储与计算都使用这种表示，日期加减不受夏令时影响。
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// storedDay 还原数据库中读出的日期，驱动可能会换算到其他时区
func storedDay(t time.Time) time.Time {
	return Day(t.UTC())
}

// ParseDate 解析 YYYY-MM-DD 格式的日期
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return Day(t), nil
}

// FormatDate 输出 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PeriodicityLabel 返回周期的可读名称，用于日志与指标标签
func PeriodicityLabel(periodicity int) string {
	switch periodicity {
	case 1:
		return "daily"
	case 7:
		return "weekly"
	default:
		return fmt.Sprintf("every_%d_days", periodicity)
	}
}

// ParsePeriodicity 接受 daily/weekly 或正整数天数
func ParsePeriodicity(value string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "daily", "day", "1":
		return 1, nil
	case "weekly", "week", "7":
		return 7, nil
	}

	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("%w: periodicity %q must be daily, weekly or a positive number of days", ErrInvalidConfiguration, value)
	}
	return days, nil
}
