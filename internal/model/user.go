// Package model defines domain entities for the application.
package model

import "time"

// User is a credential record. PasswordHash is opaque bcrypt output
// (salt embedded) and must never leave the process in API responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
