// Package common defines the sentinel errors shared by the directory service
// and its client. Callers match them with errors.Is.
//
// The directory endpoint does not send these messages as-is; wire.ErrorText
// maps each directory error to the text clients match on.
package common

import "errors"

var (
	// Directory errors.
	ErrGroupNotFound      = errors.New("group does not exist")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrDuplicateGroupName = errors.New("group name is already taken")

	// Protocol errors.
	ErrUnknownCommand   = errors.New("invalid payload type")
	ErrMalformedRequest = errors.New("malformed request")

	// Session errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no session for user")
	ErrInvalidToken = errors.New("invalid token")

	// Seed errors.
	ErrInvalidSeed = errors.New("invalid seed data")
)

// IsNotFound reports whether err refers to a missing user or group.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) || errors.Is(err, ErrUserNotFound)
}
