package domain

import "time"

type User struct {
	ID           string
	Username     string // unique; used as the token subject
	Name         string // display name
	Email        string // unique; accepted in place of username at login
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what a successful credential check yields: the canonical
// username and the ordered role set to embed in tokens.
type Identity struct {
	Username string
	Name     string
	Roles    []string
}

// Registration carries the fields needed to create a user.
type Registration struct {
	Name     string
	Username string
	Email    string
	Password string
}
