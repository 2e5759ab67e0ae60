package models

import (
	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// Settings holds per-user preferences, one row per user
type Settings struct {
	ID                 uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint `gorm:"not null;uniqueIndex" json:"userId"`
	DarkMode           bool `gorm:"not null" json:"darkMode"`
	EmailNotifications bool `gorm:"not null" json:"emailNotifications"`
	StudyReminders     bool `gorm:"not null" json:"studyReminders"`
	DeadlineReminders  bool `gorm:"not null" json:"deadlineReminders"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// DefaultSettings returns the settings a new user starts with
func DefaultSettings(userID uint) Settings {
	return Settings{
		UserID:             userID,
		DarkMode:           false,
		EmailNotifications: true,
		StudyReminders:     true,
		DeadlineReminders:  true,
	}
}

// SettingsPatch is the payload of PUT /api/settings
type SettingsPatch struct {
	DarkMode           nullable.Nullable[bool] `json:"darkMode"`
	EmailNotifications nullable.Nullable[bool] `json:"emailNotifications"`
	StudyReminders     nullable.Nullable[bool] `json:"studyReminders"`
	DeadlineReminders  nullable.Nullable[bool] `json:"deadlineReminders"`
}

// Apply merges the supplied fields over settings
func (p SettingsPatch) Apply(settings *Settings) {
	types.ApplyValue(p.DarkMode, &settings.DarkMode)
	types.ApplyValue(p.EmailNotifications, &settings.EmailNotifications)
	types.ApplyValue(p.StudyReminders, &settings.StudyReminders)
	types.ApplyValue(p.DeadlineReminders, &settings.DeadlineReminders)
}

// TableName overrides the table name for Settings
func (Settings) TableName() string {
	return "settings"
}
