package model

import (
	"regexp"
	"time"
)

// User mirrors the 'users' table. The password hash is opaque bcrypt
// output and never leaves the server.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like a standard email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}
