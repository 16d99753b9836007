package models

import "time"

// Session is the identity resolved from a verified session token.
type Session struct {
	User       *User
	RememberMe bool
	ExpiresAt  time.Time
}
