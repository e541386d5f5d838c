package service

import (
	"context"
	"testing"
	"time"
)

func TestCheckOffDatesBetween(t *testing.T) {
	gdb := setupHabitTestDB(t)
	ctx := context.Background()
	_, checkOffs := seedDemo(t, gdb)

	all, err := checkOffs.DatesSince(ctx, "test_habit_1", time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DatesSince returned error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 check-offs, got %d", len(all))
	}

	later, err := checkOffs.DatesSince(ctx, "test_habit_1", time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DatesSince returned error: %v", err)
	}
	if len(later) != 4 {
		t.Fatalf("expected 4 check-offs, got %d", len(later))
	}

	if !later[0].Equal(time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected dates in ascending order, got %v", later)
	}

	unbounded, err := checkOffs.DatesBetween(ctx, "test_habit_weekly", time.Time{}, fixedToday)
	if err != nil {
		t.Fatalf("DatesBetween returned error: %v", err)
	}
	if len(unbounded) != 5 {
		t.Fatalf("expected 5 weekly check-offs, got %d", len(unbounded))
	}
}

func TestCheckOffRecordDefaultsToToday(t *testing.T) {
	gdb := setupHabitTestDB(t)
	ctx := context.Background()
	habits := NewHabitService(gdb, nil, fixedClock)
	checkOffs := NewCheckOffService(gdb, nil, fixedClock)

	if _, err := habits.Create(ctx, HabitInput{Name: "写日记", Periodicity: 1}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, ok, err := checkOffs.FirstDate(ctx, "写日记"); err != nil || ok {
		t.Fatalf("expected no check-offs yet, ok=%v err=%v", ok, err)
	}

	record, err := checkOffs.Record(ctx, "写日记", time.Time{})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !record.CheckOffDate.Equal(Day(fixedToday)) {
		t.Fatalf("expected today's date, got %s", record.CheckOffDate)
	}

	// 同一天重复打卡保留两条记录
	if _, err := checkOffs.Record(ctx, "写日记", fixedToday.Add(3*time.Hour)); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	records, err := checkOffs.List(ctx, "写日记")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first, ok, err := checkOffs.FirstDate(ctx, "写日记")
	if err != nil || !ok {
		t.Fatalf("expected first date, ok=%v err=%v", ok, err)
	}
	if FormatDate(first) != FormatDate(fixedToday) {
		t.Fatalf("unexpected first date %s", FormatDate(first))
	}
}

func TestParseDateAndPeriodicity(t *testing.T) {
	d, err := ParseDate(" 2022-03-13 ")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if FormatDate(d) != "2022-03-13" {
		t.Fatalf("unexpected date %s", FormatDate(d))
	}

	for _, raw := range []string{"2022-13-01", "13.03.2022", ""} {
		if _, err := ParseDate(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}

	cases := map[string]int{"daily": 1, "Weekly": 7, "3": 3, "7": 7}
	for raw, want := range cases {
		got, err := ParsePeriodicity(raw)
		if err != nil || got != want {
			t.Fatalf("ParsePeriodicity(%q) = %d, %v; want %d", raw, got, err, want)
		}
	}

	for _, raw := range []string{"0", "-1", "monthly", "3x"} {
		if _, err := ParsePeriodicity(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
