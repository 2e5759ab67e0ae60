package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// Term is an academic term (semester, quarter) grouping courses
type Term struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required,notblank,max=255"`
	StartDate time.Time `gorm:"not null" json:"startDate" validate:"required"`
	EndDate   time.Time `gorm:"not null" json:"endDate" validate:"required"`
	IsActive  bool      `gorm:"not null" json:"isActive"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// TermInput is the payload of POST /api/terms
type TermInput struct {
	Name      string          `json:"name"`
	StartDate *types.FlexTime `json:"startDate"`
	EndDate   *types.FlexTime `json:"endDate"`
	IsActive  *bool           `json:"isActive"`
}

// ToModel builds a Term owned by userID. Terms are active unless stated otherwise.
func (in TermInput) ToModel(userID uint) Term {
	term := Term{
		UserID:   userID,
		Name:     in.Name,
		IsActive: true,
	}
	if in.StartDate != nil {
		term.StartDate = in.StartDate.Time()
	}
	if in.EndDate != nil {
		term.EndDate = in.EndDate.Time()
	}
	if in.IsActive != nil {
		term.IsActive = *in.IsActive
	}
	return term
}

// TermPatch is the payload of PUT /api/terms/:id
type TermPatch struct {
	Name      nullable.Nullable[string]         `json:"name"`
	StartDate nullable.Nullable[types.FlexTime] `json:"startDate"`
	EndDate   nullable.Nullable[types.FlexTime] `json:"endDate"`
	IsActive  nullable.Nullable[bool]           `json:"isActive"`
}

// Apply merges the supplied fields over term
func (p TermPatch) Apply(term *Term) {
	types.ApplyValue(p.Name, &term.Name)
	applyTime(p.StartDate, &term.StartDate)
	applyTime(p.EndDate, &term.EndDate)
	types.ApplyValue(p.IsActive, &term.IsActive)
}

// Contains reports whether at falls within the term's date range, inclusive
func (t Term) Contains(at time.Time) bool {
	return !at.Before(t.StartDate) && !at.After(t.EndDate)
}

// EntityID returns the primary key
func (t Term) EntityID() uint { return t.ID }

// OwnerID returns the owning user id
func (t Term) OwnerID() uint { return t.UserID }

// SetEntityID assigns the primary key
func (t *Term) SetEntityID(id uint) { t.ID = id }

// TableName overrides the table name for Term
func (Term) TableName() string {
	return "terms"
}
