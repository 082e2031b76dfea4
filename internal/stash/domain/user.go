package domain

import "time"

// User is an identity record. PasswordHash is the argon2id PHC string and
// must never reach any external representation.
type User struct {
	ID           string
	Name         string
	Email        string // unique, stored lower-case
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // soft delete; nil while the account lives
}

// Disabled reports whether the account can no longer authenticate.
func (u User) Disabled() bool {
	return !u.Active || u.DeletedAt != nil
}
