package domain

import "time"

// Built-in roles created on demand by registration.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
