package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/habittracker/internal/db"
	"github.com/habittracker/internal/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckOffService 负责打卡记录的写入与查询
type CheckOffService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    Clock
}

// NewCheckOffService 构造 CheckOffService
func NewCheckOffService(gdb *gorm.DB, logger *zap.Logger, clock Clock) *CheckOffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock
	}
	return &CheckOffService{db: gdb, logger: logger.Named("checkoffs"), now: clock}
}

// Record 为习惯记录一次打卡，date 为零值时记为今天。
// 同一天重复打卡会新增记录，不影响周期统计。
func (s *CheckOffService) Record(ctx context.Context, name string, date time.Time) (*db.CheckOff, error) {
	name = strings.TrimSpace(name)

	var habit db.Habit
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	if date.IsZero() {
		date = s.now()
	}

	record := db.CheckOff{
		HabitName:    habit.Name,
		CheckOffDate: Day(date),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("record check-off: %w", err)
	}

	metrics.RecordCheckOff(PeriodicityLabel(habit.Periodicity))
	s.logger.Info("Check-off recorded",
		zap.String("habit", habit.Name),
		zap.String("date", FormatDate(record.CheckOffDate)),
	)
	return &record, nil
}

// List 返回习惯的全部打卡记录，按日期升序
func (s *CheckOffService) List(ctx context.Context, name string) ([]db.CheckOff, error) {
	var records []db.CheckOff
	if err := s.db.WithContext(ctx).
		Where("habit_name = ?", strings.TrimSpace(name)).
		Order("check_off_date ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list check-offs: %w", err)
	}

	for i := range records {
		records[i].CheckOffDate = storedDay(records[i].CheckOffDate)
	}
	return records, nil
}

// DatesBetween 返回 [start, end] 内的打卡日期，start 为零值时不设下限
func (s *CheckOffService) DatesBetween(ctx context.Context, name string, start, end time.Time) ([]time.Time, error) {
	query := s.db.WithContext(ctx).Model(&db.CheckOff{}).
		Where("habit_name = ?", strings.TrimSpace(name)).
		Where("check_off_date <= ?", Day(end))
	if !start.IsZero() {
		query = query.Where("check_off_date >= ?", Day(start))
	}

	var records []db.CheckOff
	if err := query.Order("check_off_date ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list check-off dates: %w", err)
	}

	dates := make([]time.Time, 0, len(records))
	for _, record := range records {
		dates = append(dates, storedDay(record.CheckOffDate))
	}

	s.logger.Debug("Loaded check-off dates",
		zap.String("habit", name),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("count", len(dates)),
	)
	return dates, nil
}

// DatesSince 返回从 start 到今天的打卡日期
func (s *CheckOffService) DatesSince(ctx context.Context, name string, start time.Time) ([]time.Time, error) {
	return s.DatesBetween(ctx, name, start, s.now())
}

// FirstDate 返回习惯最早的打卡日期，从未打卡时 ok 为 false
func (s *CheckOffService) FirstDate(ctx context.Context, name string) (time.Time, bool, error) {
	var records []db.CheckOff
	if err := s.db.WithContext(ctx).
		Where("habit_name = ?", strings.TrimSpace(name)).
		Order("check_off_date ASC").
		Limit(1).
		Find(&records).Error; err != nil {
		return time.Time{}, false, fmt.Errorf("first check-off date: %w", err)
	}

	if len(records) == 0 {
		return time.Time{}, false, nil
	}
	return storedDay(records[0].CheckOffDate), true, nil
}
