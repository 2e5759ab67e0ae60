package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// StudySession is a scheduled block of study time.
// EndTime is not required to follow StartTime.
type StudySession struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_study_sessions_user_start" json:"userId"`
	Title     string    `gorm:"size:255;not null" json:"title" validate:"required,notblank,max=255"`
	StartTime time.Time `gorm:"not null;index:idx_study_sessions_user_start" json:"startTime" validate:"required"`
	EndTime   time.Time `gorm:"not null" json:"endTime" validate:"required"`
	CourseID  *uint     `gorm:"index" json:"courseId"`
	Location  *string   `gorm:"size:255" json:"location"`
	Completed bool      `gorm:"not null" json:"completed"`

	User   *User   `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Course *Course `gorm:"foreignKey:CourseID" json:"-" validate:"-"`
}

// StudySessionInput is the payload of POST /api/study-sessions
type StudySessionInput struct {
	Title     string          `json:"title"`
	StartTime *types.FlexTime `json:"startTime"`
	EndTime   *types.FlexTime `json:"endTime"`
	CourseID  *types.FlexID   `json:"courseId"`
	Location  *string         `json:"location"`
	Completed *bool           `json:"completed"`
}

// ToModel builds a StudySession owned by userID
func (in StudySessionInput) ToModel(userID uint) StudySession {
	session := StudySession{
		UserID:   userID,
		Title:    in.Title,
		CourseID: in.CourseID.Ptr(),
		Location: in.Location,
	}
	if in.StartTime != nil {
		session.StartTime = in.StartTime.Time()
	}
	if in.EndTime != nil {
		session.EndTime = in.EndTime.Time()
	}
	if in.Completed != nil {
		session.Completed = *in.Completed
	}
	return session
}

// StudySessionPatch is the payload of PUT /api/study-sessions/:id
type StudySessionPatch struct {
	Title     nullable.Nullable[string]         `json:"title"`
	StartTime nullable.Nullable[types.FlexTime] `json:"startTime"`
	EndTime   nullable.Nullable[types.FlexTime] `json:"endTime"`
	CourseID  nullable.Nullable[types.FlexID]   `json:"courseId"`
	Location  nullable.Nullable[string]         `json:"location"`
	Completed nullable.Nullable[bool]           `json:"completed"`
}

// Apply merges the supplied fields over session
func (p StudySessionPatch) Apply(session *StudySession) {
	types.ApplyValue(p.Title, &session.Title)
	applyTime(p.StartTime, &session.StartTime)
	applyTime(p.EndTime, &session.EndTime)
	applyIDPtr(p.CourseID, &session.CourseID)
	types.ApplyPtr(p.Location, &session.Location)
	types.ApplyValue(p.Completed, &session.Completed)
}

// EntityID returns the primary key
func (s StudySession) EntityID() uint { return s.ID }

// OwnerID returns the owning user id
func (s StudySession) OwnerID() uint { return s.UserID }

// SetEntityID assigns the primary key
func (s *StudySession) SetEntityID(id uint) { s.ID = id }

// TableName overrides the table name for StudySession
func (StudySession) TableName() string {
	return "study_sessions"
}
