// Package models holds the value types shared by the directory store, the
// session registry and the wire protocol.
package models

import "strings"

// User is loaded once at startup and never mutated afterwards.
type User struct {
	ID           int    `json:"Uid"`
	Login        string `json:"Login"`
	FirstName    string `json:"Firstname"`
	LastName     string `json:"Lastname"`
	PasswordHash string `json:"-"`
}

// LessByName orders users by last name, then first name, then id.
func LessByName(a, b User) bool {
	if c := strings.Compare(a.LastName, b.LastName); c != 0 {
		return c < 0
	}
	if c := strings.Compare(a.FirstName, b.FirstName); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}
