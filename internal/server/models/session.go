package models

import "time"

// Session pairs an authenticated user with the token issued at login.
type Session struct {
	User      User
	Token     string
	CreatedAt time.Time
}
