// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

type User struct {
	ID           string
	UserName     string
	DisplayName  string
	PasswordHash string
	Roles        []auth.Role
	Banned       bool
	CreatedAt    time.Time
}

// Record narrows the user to what the Authenticator needs.
func (u *User) Record() *auth.UserRecord {
	return &auth.UserRecord{
		UserName:     u.UserName,
		PasswordHash: u.PasswordHash,
		Roles:        u.Roles,
		Banned:       u.Banned,
	}
}
