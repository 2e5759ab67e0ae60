package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// Task types
const (
	TaskTypeAssignment = "assignment"
	TaskTypeProject    = "project"
	TaskTypeExam       = "exam"
	TaskTypeQuiz       = "quiz"
)

// Task priorities and statuses
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// Task is an assignment, project, exam or quiz with an optional due date
type Task struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"not null;index:idx_tasks_user_due" json:"userId"`
	Name           string     `gorm:"size:255;not null" json:"name" validate:"required,notblank,max=255"`
	Description    *string    `gorm:"type:text" json:"description"`
	DueDate        *time.Time `gorm:"index:idx_tasks_user_due" json:"dueDate"`
	CourseID       *uint      `gorm:"index" json:"courseId"`
	TaskType       string     `gorm:"size:32;not null" json:"taskType" validate:"required,oneof=assignment project exam quiz"`
	Priority       string     `gorm:"size:16;not null" json:"priority" validate:"oneof=high medium low"`
	Status         string     `gorm:"size:16;not null" json:"status" validate:"oneof=complete incomplete"`
	EstimatedHours *int       `json:"estimatedHours" validate:"omitempty,gte=0"`

	User   *User   `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Course *Course `gorm:"foreignKey:CourseID" json:"-" validate:"-"`
}

// TaskInput is the payload of POST /api/tasks
type TaskInput struct {
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	DueDate        *types.FlexTime `json:"dueDate"`
	CourseID       *types.FlexID   `json:"courseId"`
	TaskType       string          `json:"taskType"`
	Priority       *string         `json:"priority"`
	Status         *string         `json:"status"`
	EstimatedHours *int            `json:"estimatedHours"`
}

// ToModel builds a Task owned by userID, applying column defaults
func (in TaskInput) ToModel(userID uint) Task {
	task := Task{
		UserID:         userID,
		Name:           in.Name,
		Description:    in.Description,
		DueDate:        in.DueDate.TimePtr(),
		CourseID:       in.CourseID.Ptr(),
		TaskType:       in.TaskType,
		Priority:       PriorityMedium,
		Status:         StatusIncomplete,
		EstimatedHours: in.EstimatedHours,
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	return task
}

// TaskPatch is the payload of PUT /api/tasks/:id
type TaskPatch struct {
	Name           nullable.Nullable[string]         `json:"name"`
	Description    nullable.Nullable[string]         `json:"description"`
	DueDate        nullable.Nullable[types.FlexTime] `json:"dueDate"`
	CourseID       nullable.Nullable[types.FlexID]   `json:"courseId"`
	TaskType       nullable.Nullable[string]         `json:"taskType"`
	Priority       nullable.Nullable[string]         `json:"priority"`
	Status         nullable.Nullable[string]         `json:"status"`
	EstimatedHours nullable.Nullable[int]            `json:"estimatedHours"`
}

// Apply merges the supplied fields over task
func (p TaskPatch) Apply(task *Task) {
	types.ApplyValue(p.Name, &task.Name)
	types.ApplyPtr(p.Description, &task.Description)
	applyTimePtr(p.DueDate, &task.DueDate)
	applyIDPtr(p.CourseID, &task.CourseID)
	types.ApplyValue(p.TaskType, &task.TaskType)
	types.ApplyValue(p.Priority, &task.Priority)
	types.ApplyValue(p.Status, &task.Status)
	types.ApplyPtr(p.EstimatedHours, &task.EstimatedHours)
}

// EntityID returns the primary key
func (t Task) EntityID() uint { return t.ID }

// OwnerID returns the owning user id
func (t Task) OwnerID() uint { return t.UserID }

// SetEntityID assigns the primary key
func (t *Task) SetEntityID(id uint) { t.ID = id }

// TableName overrides the table name for Task
func (Task) TableName() string {
	return "tasks"
}
