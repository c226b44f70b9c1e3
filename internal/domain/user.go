package domain

import "time"

// Role is an open enumeration of principal roles. Only RoleAdmin carries
// special meaning: it satisfies every role requirement.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// User is the domain model for accounts that can log in and author posts.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
