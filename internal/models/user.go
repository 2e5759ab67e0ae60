package models

import (
	"time"
)

// User is the root of ownership for every other entity
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName  string    `gorm:"size:255;not null" json:"fullName"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterInput is the payload of POST /api/auth/register
type RegisterInput struct {
	Username string `json:"username" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required,notblank,max=255"`
}

// LoginInput is the payload of POST /api/auth/login
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
