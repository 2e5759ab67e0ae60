package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// DefaultWeeklyStudyGoal is the weekly goal, in hours, given to new users
const DefaultWeeklyStudyGoal = 10

// UserStats holds cumulative and weekly study statistics, one row per user
type UserStats struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              uint       `gorm:"not null;uniqueIndex" json:"userId"`
	TotalHoursStudied   int        `gorm:"not null" json:"totalHoursStudied" validate:"gte=0"`
	TotalTasksCompleted int        `gorm:"not null" json:"totalTasksCompleted" validate:"gte=0"`
	StreakDays          int        `gorm:"not null" json:"streakDays" validate:"gte=0"`
	LastStudyDate       *time.Time `json:"lastStudyDate"`
	WeeklyStudyGoal     int        `gorm:"not null" json:"weeklyStudyGoal" validate:"gte=0"`
	WeeklyHoursStudied  int        `gorm:"not null" json:"weeklyHoursStudied" validate:"gte=0"`
	Improvement         int        `gorm:"not null" json:"improvement"`
	OverallProgress     int        `gorm:"not null" json:"overallProgress" validate:"gte=0,lte=100"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// NewUserStats returns zeroed statistics with the default weekly goal
func NewUserStats(userID uint) UserStats {
	return UserStats{
		UserID:          userID,
		WeeklyStudyGoal: DefaultWeeklyStudyGoal,
	}
}

// UserStatsPatch is the payload of PUT /api/user-stats
type UserStatsPatch struct {
	TotalHoursStudied   nullable.Nullable[int]            `json:"totalHoursStudied"`
	TotalTasksCompleted nullable.Nullable[int]            `json:"totalTasksCompleted"`
	StreakDays          nullable.Nullable[int]            `json:"streakDays"`
	LastStudyDate       nullable.Nullable[types.FlexTime] `json:"lastStudyDate"`
	WeeklyStudyGoal     nullable.Nullable[int]            `json:"weeklyStudyGoal"`
	WeeklyHoursStudied  nullable.Nullable[int]            `json:"weeklyHoursStudied"`
	Improvement         nullable.Nullable[int]            `json:"improvement"`
	OverallProgress     nullable.Nullable[int]            `json:"overallProgress"`
}

// Apply merges the supplied fields over stats
func (p UserStatsPatch) Apply(stats *UserStats) {
	types.ApplyValue(p.TotalHoursStudied, &stats.TotalHoursStudied)
	types.ApplyValue(p.TotalTasksCompleted, &stats.TotalTasksCompleted)
	types.ApplyValue(p.StreakDays, &stats.StreakDays)
	applyTimePtr(p.LastStudyDate, &stats.LastStudyDate)
	types.ApplyValue(p.WeeklyStudyGoal, &stats.WeeklyStudyGoal)
	types.ApplyValue(p.WeeklyHoursStudied, &stats.WeeklyHoursStudied)
	types.ApplyValue(p.Improvement, &stats.Improvement)
	types.ApplyValue(p.OverallProgress, &stats.OverallProgress)
}

// TableName overrides the table name for UserStats
func (UserStats) TableName() string {
	return "user_stats"
}
