package domain

import "strings"

// DateLayout is the calendar date format used for event and donation dates.
const DateLayout = "2006-01-02"

// Actor is the caller identity passed in by route handlers.
type Actor struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// Is reports whether the actor is the user identified by id or email.
func (a Actor) Is(userID, email string) bool {
	if a.UserID != "" && a.UserID == userID {
		return true
	}
	return a.Email != "" && strings.EqualFold(a.Email, email)
}

// SameEmail compares addresses case-insensitively, ignoring surrounding space.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
