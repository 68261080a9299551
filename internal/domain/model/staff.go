package model

import "time"

// Staff represents a back-office operator with API access.
type Staff struct {
	ID           string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
