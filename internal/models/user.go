package models

import "time"

type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	// TokenVersion is embedded in every session token issued for the user.
	// Bumping it invalidates all outstanding tokens.
	TokenVersion int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
