package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// SeedHabit 描述一条演示数据
type SeedHabit struct {
	Name        string
	Periodicity int
	Created     time.Time
	CheckOffs   []time.Time
}

// DemoHabits 返回五个演示习惯（三个每日、两个每周）及其打卡记录
func DemoHabits() []SeedHabit {
	created := date(2022, 3, 1)
	return []SeedHabit{
		{
			Name: "test_habit", Periodicity: 1, Created: created,
			CheckOffs: slices.Concat(
				dates(2022, 3, 13, 16),
				[]time.Time{date(2022, 3, 18), date(2022, 3, 20), date(2022, 3, 21), date(2022, 3, 23), date(2022, 3, 24)},
				dates(2022, 3, 27, 31),
				dates(2022, 4, 1, 5),
			),
		},
		{
			Name: "test_habit_1", Periodicity: 1, Created: created,
			CheckOffs: append(dates(2022, 3, 20, 23), date(2022, 3, 25)),
		},
		{
			Name: "test_habit_2", Periodicity: 1, Created: created,
			CheckOffs: append(dates(2022, 5, 13, 22), date(2022, 6, 16)),
		},
		{
			Name: "test_habit_weekly", Periodicity: 7, Created: created,
			CheckOffs: []time.Time{date(2022, 2, 1), date(2022, 2, 8), date(2022, 2, 15), date(2022, 2, 22), date(2022, 3, 1)},
		},
		{
			Name: "test_habit_weekly_1", Periodicity: 7, Created: created,
			CheckOffs: []time.Time{date(2022, 3, 7), date(2022, 3, 14), date(2022, 3, 25), date(2022, 3, 28), date(2022, 4, 4)},
		},
	}
}

// Seed 写入演示数据，已有习惯时跳过并返回 0
func Seed(ctx context.Context, habits *HabitService, checkOffs *CheckOffService, data []SeedHabit) (int, error) {
	existing, err := habits.Names(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		habits.logger.Info("Habits already exist, skipping seed", zap.Int("count", len(existing)))
		return 0, nil
	}

	for _, item := range data {
		created := item.Created
		if _, err := habits.Create(ctx, HabitInput{Name: item.Name, Periodicity: item.Periodicity, CreationDate: &created}); err != nil {
			return 0, fmt.Errorf("seed habit %s: %w", item.Name, err)
		}
		for _, d := range item.CheckOffs {
			if _, err := checkOffs.Record(ctx, item.Name, d); err != nil {
				return 0, fmt.Errorf("seed check-off %s: %w", item.Name, err)
			}
		}
	}
	return len(data), nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dates 返回同月 from 到 to（含）的连续日期
func dates(year int, month time.Month, from, to int) []time.Time {
	out := make([]time.Time, 0, to-from+1)
	for d := from; d <= to; d++ {
		out = append(out, date(year, month, d))
	}
	return out
}
