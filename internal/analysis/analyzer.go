package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/habittracker/internal/metrics"
	"go.uber.org/zap"
)

// ErrNoHabits 在跨习惯统计时没有任何（符合过滤条件的）习惯
var ErrNoHabits = errors.New("no habits to analyse")

// Statistic 标识一种统计口径
type Statistic string

const (
	StatLongestStreak Statistic = "longest_streak"
	StatResets        Statistic = "resets"
)

// HabitStore 提供习惯定义查询
type HabitStore interface {
	Names(ctx context.Context, periodicity int) ([]string, error)
	Periodicity(ctx context.Context, name string) (int, error)
}

// CheckOffStore 提供打卡日期查询
type CheckOffStore interface {
	DatesBetween(ctx context.Context, name string, start, end time.Time) ([]time.Time, error)
	FirstDate(ctx context.Context, name string) (time.Time, bool, error)
}

// Stat 是单个习惯的统计结果
type Stat struct {
	Habit string `json:"habit"`
	Value int    `json:"value"`
}

// Leaders 是跨习惯统计结果，并列最大值的习惯全部保留
type Leaders struct {
	Habits []string `json:"habits"`
	Value  int      `json:"value"`
}

// Summary 汇总单个习惯在统计区间内的各项指标
type Summary struct {
	Habit          string    `json:"habit"`
	Periodicity    int       `json:"periodicity"`
	Periods        int       `json:"periods"`
	Satisfied      int       `json:"satisfied"`
	Resets         int       `json:"resets"`
	LongestStreak  int       `json:"longest_streak"`
	CurrentStreak  int       `json:"current_streak"`
	CompletionRate float64   `json:"completion_rate"`
	Origin         time.Time `json:"origin"`
	Started        bool      `json:"started"`
}

// Analyzer 在 HabitStore/CheckOffStore 之上生成周期序列并做统计
type Analyzer struct {
	habits    HabitStore
	checkOffs CheckOffStore
	now       func() time.Time
	logger    *zap.Logger
}

// NewAnalyzer 构造 Analyzer，now 为空时使用系统时间
func NewAnalyzer(habits HabitStore, checkOffs CheckOffStore, now func() time.Time, logger *zap.Logger) *Analyzer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{habits: habits, checkOffs: checkOffs, now: now, logger: logger.Named("analysis")}
}

// Today 返回当前日历日
func (a *Analyzer) Today() time.Time {
	return day(a.now())
}

// HabitNames 返回习惯名称，periodicity 为 0 时不过滤
func (a *Analyzer) HabitNames(ctx context.Context, periodicity int) ([]string, error) {
	return a.habits.Names(ctx, periodicity)
}

// Series 返回习惯在最近 interval 天（0 表示全部历史）内的周期序列
func (a *Analyzer) Series(ctx context.Context, name string, interval int) ([]PeriodRecord, error) {
	records, _, err := a.series(ctx, name, interval)
	return records, err
}

func (a *Analyzer) series(ctx context.Context, name string, interval int) ([]PeriodRecord, int, error) {
	periodicity, err := a.habits.Periodicity(ctx, name)
	if err != nil {
		return nil, 0, err
	}

	window := NewWindow(a.now(), interval)
	dates, err := a.checkOffs.DatesBetween(ctx, name, window.Start, window.Today)
	if err != nil {
		return nil, 0, err
	}

	first, hasFirst, err := a.checkOffs.FirstDate(ctx, name)
	if err != nil {
		return nil, 0, err
	}

	records := Reconcile(periodicity, dates, first, hasFirst, window)
	a.logger.Debug("Reconciled periods",
		zap.String("habit", name),
		zap.Int("periodicity", periodicity),
		zap.Int("interval", interval),
		zap.Int("check_offs", len(dates)),
		zap.Int("periods", len(records)),
	)
	return records, periodicity, nil
}

// HabitLongestStreak 返回单个习惯的最长连续完成数
func (a *Analyzer) HabitLongestStreak(ctx context.Context, name string, interval int) (Stat, error) {
	return a.habitStat(ctx, StatLongestStreak, name, interval)
}

// HabitResets 返回单个习惯的中断次数
func (a *Analyzer) HabitResets(ctx context.Context, name string, interval int) (Stat, error) {
	return a.habitStat(ctx, StatResets, name, interval)
}

// MaxLongestStreak 返回最长连续完成数最大的习惯（可并列）
func (a *Analyzer) MaxLongestStreak(ctx context.Context, interval, periodicity int) (Leaders, error) {
	return a.leaders(ctx, StatLongestStreak, interval, periodicity)
}

// MaxResets 返回中断次数最多的习惯（可并列）
func (a *Analyzer) MaxResets(ctx context.Context, interval, periodicity int) (Leaders, error) {
	return a.leaders(ctx, StatResets, interval, periodicity)
}

func (a *Analyzer) habitStat(ctx context.Context, stat Statistic, name string, interval int) (Stat, error) {
	started := time.Now()
	defer func() {
		metrics.RecordAnalysisDuration(string(stat), "habit", time.Since(started))
	}()

	records, _, err := a.series(ctx, name, interval)
	if err != nil {
		return Stat{}, err
	}
	return Stat{Habit: name, Value: measure(stat, records)}, nil
}

func (a *Analyzer) leaders(ctx context.Context, stat Statistic, interval, periodicity int) (Leaders, error) {
	started := time.Now()
	defer func() {
		metrics.RecordAnalysisDuration(string(stat), "all", time.Since(started))
	}()

	names, err := a.habits.Names(ctx, periodicity)
	if err != nil {
		return Leaders{}, err
	}
	if len(names) == 0 {
		if periodicity > 0 {
			return Leaders{}, fmt.Errorf("%w with periodicity %d", ErrNoHabits, periodicity)
		}
		return Leaders{}, ErrNoHabits
	}

	result := Leaders{Value: -1}
	for _, name := range names {
		records, _, err := a.series(ctx, name, interval)
		if err != nil {
			return Leaders{}, fmt.Errorf("analyse %s: %w", name, err)
		}

		value := measure(stat, records)
		switch {
		case value > result.Value:
			result = Leaders{Habits: []string{name}, Value: value}
		case value == result.Value:
			result.Habits = append(result.Habits, name)
		}
	}

	a.logger.Debug("Computed leaders",
		zap.String("statistic", string(stat)),
		zap.Strings("habits", result.Habits),
		zap.Int("value", result.Value),
	)
	return result, nil
}

// Summary 返回单个习惯的汇总指标
func (a *Analyzer) Summary(ctx context.Context, name string, interval int) (Summary, error) {
	records, periodicity, err := a.series(ctx, name, interval)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Habit:          name,
		Periodicity:    periodicity,
		Periods:        len(records),
		Satisfied:      SatisfiedCount(records),
		Resets:         ResetCount(records),
		LongestStreak:  LongestStreak(records),
		CurrentStreak:  CurrentStreak(records, periodicity, a.Today()),
		CompletionRate: CompletionRate(records),
		Started:        len(records) > 0,
	}
	if summary.Started {
		summary.Origin = records[0].Start
	}
	return summary, nil
}

// Overview 返回全部（或指定周期的）习惯汇总，顺序与习惯列表一致
func (a *Analyzer) Overview(ctx context.Context, interval, periodicity int) ([]Summary, error) {
	names, err := a.habits.Names(ctx, periodicity)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		summary, err := a.Summary(ctx, name, interval)
		if err != nil {
			return nil, fmt.Errorf("summarise %s: %w", name, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func measure(stat Statistic, records []PeriodRecord) int {
	if stat == StatResets {
		return ResetCount(records)
	}
	return LongestStreak(records)
}
