package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/habittracker/internal/db"
	"gorm.io/gorm"
)

var fixedToday = time.Date(2022, 6, 24, 10, 30, 0, 0, time.Local)

func fixedClock() time.Time {
	return fixedToday
}

func setupHabitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close(gdb)
	})
	return gdb
}

func seedDemo(t *testing.T, gdb *gorm.DB) (*HabitService, *CheckOffService) {
	t.Helper()
	habits := NewHabitService(gdb, nil, fixedClock)
	checkOffs := NewCheckOffService(gdb, nil, fixedClock)

	if _, err := Seed(context.Background(), habits, checkOffs, DemoHabits()); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}
	return habits, checkOffs
}

func TestHabitServiceCreateAndList(t *testing.T) {
	gdb := setupHabitTestDB(t)
	ctx := context.Background()
	svc := NewHabitService(gdb, nil, fixedClock)

	habit, err := svc.Create(ctx, HabitInput{Name: " 晨跑 ", Periodicity: 1})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if habit.Name != "晨跑" {
		t.Fatalf("expected trimmed name, got %q", habit.Name)
	}

	if !habit.CreationDate.Equal(Day(fixedToday)) {
		t.Fatalf("expected creation date to default to today, got %s", habit.CreationDate)
	}

	created := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(ctx, HabitInput{Name: "阅读", Periodicity: 7, CreationDate: &created}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	habits, err := svc.List(ctx, HabitFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(habits) != 2 || habits[0].Name != "阅读" {
		t.Fatalf("expected habits ordered by creation date, got %+v", habits)
	}

	weekly, err := svc.Names(ctx, 7)
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}

	if len(weekly) != 1 || weekly[0] != "阅读" {
		t.Fatalf("unexpected weekly habits: %v", weekly)
	}

	got, err := svc.Get(ctx, "阅读")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if !got.CreationDate.Equal(created) {
		t.Fatalf("expected creation date %s, got %s", created, got.CreationDate)
	}
}

func TestHabitServiceRejectsInvalidConfiguration(t *testing.T) {
	gdb := setupHabitTestDB(t)
	ctx := context.Background()
	svc := NewHabitService(gdb, nil, fixedClock)

	cases := []HabitInput{
		{Name: "冥想", Periodicity: 0},
		{Name: "冥想", Periodicity: -7},
		{Name: "  ", Periodicity: 1},
	}
	for _, input := range cases {
		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("expected ErrInvalidConfiguration for %+v, got %v", input, err)
		}
	}

	if _, err := svc.Create(ctx, HabitInput{Name: "冥想", Periodicity: 1}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err := svc.Create(ctx, HabitInput{Name: "冥想", Periodicity: 7})
	if !errors.Is(err, ErrInvalidConfiguration) || !errors.Is(err, ErrHabitExists) {
		t.Fatalf("expected duplicate name to be rejected, got %v", err)
	}
}

func TestHabitServiceNotFound(t *testing.T) {
	gdb := setupHabitTestDB(t)
	ctx := context.Background()
	svc := NewHabitService(gdb, nil, fixedClock)

	if _, err := svc.Periodicity(ctx, "missing"); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, "missing"); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound on delete, got %v", err)
	}
}

func TestHabitServiceDeleteCascades(t *testing.T) {
	gdb := setupHabitTestDB(t)
	ctx := context.Background()
	habits, checkOffs := seedDemo(t, gdb)

	daily, err := habits.Names(ctx, 1)
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	if len(daily) != 3 {
		t.Fatalf("expected 3 daily habits, got %d", len(daily))
	}

	if err := habits.Delete(ctx, "test_habit_2"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	daily, err = habits.Names(ctx, 1)
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 daily habits after delete, got %d", len(daily))
	}

	var orphans int64
	if err := gdb.Model(&db.CheckOff{}).Where("habit_name = ?", "test_habit_2").Count(&orphans).Error; err != nil {
		t.Fatalf("count check-offs: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected check-offs to be deleted, found %d", orphans)
	}

	if _, ok, err := checkOffs.FirstDate(ctx, "test_habit_2"); err != nil || ok {
		t.Fatalf("expected no first date after delete, ok=%v err=%v", ok, err)
	}

	if _, err := checkOffs.Record(ctx, "test_habit_2", fixedToday); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound when recording for deleted habit, got %v", err)
	}
}

func TestSeedSkipsWhenHabitsExist(t *testing.T) {
	gdb := setupHabitTestDB(t)
	habits, checkOffs := seedDemo(t, gdb)

	n, err := Seed(context.Background(), habits, checkOffs, DemoHabits())
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected second seed to be skipped, inserted %d", n)
	}
}
