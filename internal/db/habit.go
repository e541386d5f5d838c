package db

import "time"

// Habit 定义习惯，名称即主键
// Periodicity 为每个打卡周期包含的天数：1 = 每日，7 = 每周
// CreationDate 只保留日期部分，创建后习惯不可修改
type Habit struct {
	Name         string     `gorm:"primaryKey"`
	Periodicity  int        `gorm:"not null;index"`
	CreationDate time.Time  `gorm:"not null"`
	CheckOffs    []CheckOff `gorm:"foreignKey:HabitName;references:Name;constraint:OnDelete:CASCADE"`
}

// TableName 固定为 habits
func (Habit) TableName() string {
	return "habits"
}

// CheckOff 记录一次打卡
// 同一天允许多条记录，统计时按周期去重
type CheckOff struct {
	ID           uint      `gorm:"primaryKey"`
	HabitName    string    `gorm:"not null;index:idx_tracker_habit_date"`
	CheckOffDate time.Time `gorm:"not null;index:idx_tracker_habit_date"`
}

// TableName 沿用 tracker 表名
func (CheckOff) TableName() string {
	return "tracker"
}
