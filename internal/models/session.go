package models

import "time"

// Session is a server-side session record keyed by the opaque cookie value.
// A nil ExpiresAt never expires.
type Session struct {
	ID        string     `gorm:"primaryKey;size:64"`
	Data      []byte     `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
}

// Expired reports whether the session is past its expiry at now
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// TableName overrides the table name for Session
func (Session) TableName() string {
	return "sessions"
}
