package models

// All returns every model managed by auto-migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Term{},
		&Task{},
		&StudySession{},
		&Goal{},
		&Settings{},
		&UserStats{},
		&Session{},
	}
}
