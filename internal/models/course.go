package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// DefaultCourseColor is the display color given to courses created without one
const DefaultCourseColor = "#5C6DF3"

// Course is a class the user is enrolled in
type Course struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	Name        string     `gorm:"size:255;not null" json:"name" validate:"required,notblank,max=255"`
	Instructor  *string    `gorm:"size:255" json:"instructor"`
	Description *string    `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Color       string     `gorm:"size:32;not null" json:"color" validate:"max=32"`
	Progress    int        `gorm:"not null" json:"progress" validate:"gte=0,lte=100"`
	Grade       *string    `gorm:"size:16" json:"grade"`
	TermID      *uint      `gorm:"index" json:"termId"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Term *Term `gorm:"foreignKey:TermID" json:"-" validate:"-"`
}

// CourseInput is the payload of POST /api/courses
type CourseInput struct {
	Name        string          `json:"name"`
	Instructor  *string         `json:"instructor"`
	Description *string         `json:"description"`
	StartDate   *types.FlexTime `json:"startDate"`
	EndDate     *types.FlexTime `json:"endDate"`
	Color       *string         `json:"color"`
	Progress    *int            `json:"progress"`
	Grade       *string         `json:"grade"`
	TermID      *types.FlexID   `json:"termId"`
}

// ToModel builds a Course owned by userID, applying column defaults
func (in CourseInput) ToModel(userID uint) Course {
	course := Course{
		UserID:      userID,
		Name:        in.Name,
		Instructor:  in.Instructor,
		Description: in.Description,
		StartDate:   in.StartDate.TimePtr(),
		EndDate:     in.EndDate.TimePtr(),
		Color:       DefaultCourseColor,
		Grade:       in.Grade,
		TermID:      in.TermID.Ptr(),
	}
	if in.Color != nil && *in.Color != "" {
		course.Color = *in.Color
	}
	if in.Progress != nil {
		course.Progress = *in.Progress
	}
	return course
}

// CoursePatch is the payload of PUT /api/courses/:id
type CoursePatch struct {
	Name        nullable.Nullable[string]         `json:"name"`
	Instructor  nullable.Nullable[string]         `json:"instructor"`
	Description nullable.Nullable[string]         `json:"description"`
	StartDate   nullable.Nullable[types.FlexTime] `json:"startDate"`
	EndDate     nullable.Nullable[types.FlexTime] `json:"endDate"`
	Color       nullable.Nullable[string]         `json:"color"`
	Progress    nullable.Nullable[int]            `json:"progress"`
	Grade       nullable.Nullable[string]         `json:"grade"`
	TermID      nullable.Nullable[types.FlexID]   `json:"termId"`
}

// Apply merges the supplied fields over course
func (p CoursePatch) Apply(course *Course) {
	types.ApplyValue(p.Name, &course.Name)
	types.ApplyPtr(p.Instructor, &course.Instructor)
	types.ApplyPtr(p.Description, &course.Description)
	applyTimePtr(p.StartDate, &course.StartDate)
	applyTimePtr(p.EndDate, &course.EndDate)
	types.ApplyValue(p.Color, &course.Color)
	types.ApplyValue(p.Progress, &course.Progress)
	types.ApplyPtr(p.Grade, &course.Grade)
	applyIDPtr(p.TermID, &course.TermID)
}

// EntityID returns the primary key
func (c Course) EntityID() uint { return c.ID }

// OwnerID returns the owning user id
func (c Course) OwnerID() uint { return c.UserID }

// SetEntityID assigns the primary key
func (c *Course) SetEntityID(id uint) { c.ID = id }

// TableName overrides the table name for Course
func (Course) TableName() string {
	return "courses"
}
