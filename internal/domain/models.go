package domain

// Models lists every table for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&ChatSession{},
		&ChatMessage{},
		&Document{},
		&LawyerConnection{},
		&PasswordResetCode{},
	}
}
