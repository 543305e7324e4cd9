package domain

import "time"

// AccessToken describes an issued bearer token.
type AccessToken struct {
	ID        string
	UserID    string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
