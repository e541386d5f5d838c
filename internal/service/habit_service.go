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

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrInvalidConfiguration 当习惯名称或周期配置异常时返回
	ErrInvalidConfiguration = errors.New("invalid habit configuration")
	// ErrHabitExists 名称重复，总是与 ErrInvalidConfiguration 一起包装
	ErrHabitExists = errors.New("habit already exists")
)

// HabitService 负责习惯定义的增删查
// 习惯创建后不可修改，删除时级联删除全部打卡记录
type HabitService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    Clock
}

// HabitFilter 描述列表过滤条件，Periodicity 为 0 表示不过滤
type HabitFilter struct {
	Periodicity int
}

// HabitInput 定义创建习惯时可配置字段
type HabitInput struct {
	Name         string
	Periodicity  int
	CreationDate *time.Time
}

// NewHabitService 构造 HabitService，clock 为空时使用系统时间
func NewHabitService(gdb *gorm.DB, logger *zap.Logger, clock Clock) *HabitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock
	}
	return &HabitService{db: gdb, logger: logger.Named("habits"), now: clock}
}

// List 按创建日期、名称排序返回习惯
func (s *HabitService) List(ctx context.Context, filter HabitFilter) ([]db.Habit, error) {
	var habits []db.Habit

	query := s.db.WithContext(ctx).Model(&db.Habit{})
	if filter.Periodicity > 0 {
		query = query.Where("periodicity = ?", filter.Periodicity)
	}

	if err := query.Order("creation_date ASC, name ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	s.logger.Debug("Listed habits", zap.Int("periodicity", filter.Periodicity), zap.Int("count", len(habits)))
	return habits, nil
}

// Names 返回习惯名称列表，periodicity 为 0 时返回全部
func (s *HabitService) Names(ctx context.Context, periodicity int) ([]string, error) {
	habits, err := s.List(ctx, HabitFilter{Periodicity: periodicity})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(habits))
	for _, habit := range habits {
		names = append(names, habit.Name)
	}
	return names, nil
}

// Get 根据名称获取习惯
func (s *HabitService) Get(ctx context.Context, name string) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	habit.CreationDate = storedDay(habit.CreationDate)
	return &habit, nil
}

// Periodicity 返回习惯的周期天数
func (s *HabitService) Periodicity(ctx context.Context, name string) (int, error) {
	habit, err := s.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	return habit.Periodicity, nil
}

// Create 新建习惯，CreationDate 为空时取今天
func (s *HabitService) Create(ctx context.Context, input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	created := Day(s.now())
	if input.CreationDate != nil {
		created = Day(*input.CreationDate)
	}

	habit := db.Habit{
		Name:         strings.TrimSpace(input.Name),
		Periodicity:  input.Periodicity,
		CreationDate: created,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Habit{}).Where("name = ?", habit.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("check habit name: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %w: %s", ErrInvalidConfiguration, ErrHabitExists, habit.Name)
		}
		if err := tx.Create(&habit).Error; err != nil {
			return fmt.Errorf("create habit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordHabitMutation("create")
	s.logger.Info("Habit created",
		zap.String("name", habit.Name),
		zap.Int("periodicity", habit.Periodicity),
		zap.String("creation_date", FormatDate(habit.CreationDate)),
	)
	return &habit, nil
}

// Delete 删除习惯及其全部打卡记录
func (s *HabitService) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_name = ?", name).Delete(&db.CheckOff{}).Error; err != nil {
			return fmt.Errorf("delete check-offs: %w", err)
		}
		result := tx.Where("name = ?", name).Delete(&db.Habit{})
		if result.Error != nil {
			return fmt.Errorf("delete habit: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordHabitMutation("delete")
	s.logger.Info("Habit deleted", zap.String("name", name), zap.Int64("rows", removed))
	return nil
}

func validateHabitInput(input HabitInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: habit name is required", ErrInvalidConfiguration)
	}

	if input.Periodicity <= 0 {
		return fmt.Errorf("%w: periodicity must be positive, got %d", ErrInvalidConfiguration, input.Periodicity)
	}

	return nil
}
