package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// Goal is a weekly goal, optionally tied to a course
type Goal struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"userId"`
	Title     string     `gorm:"size:255;not null" json:"title" validate:"required,notblank,max=255"`
	Completed bool       `gorm:"not null" json:"completed"`
	DueDate   *time.Time `json:"dueDate"`
	CourseID  *uint      `gorm:"index" json:"courseId"`

	User   *User   `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Course *Course `gorm:"foreignKey:CourseID" json:"-" validate:"-"`
}

// GoalInput is the payload of POST /api/goals
type GoalInput struct {
	Title     string          `json:"title"`
	Completed *bool           `json:"completed"`
	DueDate   *types.FlexTime `json:"dueDate"`
	CourseID  *types.FlexID   `json:"courseId"`
}

// ToModel builds a Goal owned by userID
func (in GoalInput) ToModel(userID uint) Goal {
	goal := Goal{
		UserID:   userID,
		Title:    in.Title,
		DueDate:  in.DueDate.TimePtr(),
		CourseID: in.CourseID.Ptr(),
	}
	if in.Completed != nil {
		goal.Completed = *in.Completed
	}
	return goal
}

// GoalPatch is the payload of PUT /api/goals/:id
type GoalPatch struct {
	Title     nullable.Nullable[string]         `json:"title"`
	Completed nullable.Nullable[bool]           `json:"completed"`
	DueDate   nullable.Nullable[types.FlexTime] `json:"dueDate"`
	CourseID  nullable.Nullable[types.FlexID]   `json:"courseId"`
}

// Apply merges the supplied fields over goal
func (p GoalPatch) Apply(goal *Goal) {
	types.ApplyValue(p.Title, &goal.Title)
	types.ApplyValue(p.Completed, &goal.Completed)
	applyTimePtr(p.DueDate, &goal.DueDate)
	applyIDPtr(p.CourseID, &goal.CourseID)
}

// EntityID returns the primary key
func (g Goal) EntityID() uint { return g.ID }

// OwnerID returns the owning user id
func (g Goal) OwnerID() uint { return g.UserID }

// SetEntityID assigns the primary key
func (g *Goal) SetEntityID(id uint) { g.ID = id }

// TableName overrides the table name for Goal
func (Goal) TableName() string {
	return "goals"
}
