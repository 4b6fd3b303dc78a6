// Package models defines the client-side data models of Retro Revive.
package models

// User is the identity held by the session while signed in.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Account is a registry row: a User plus the password salt and verifier.
// The password itself is never stored.
type Account struct {
	User
	Salt      []byte
	Verifier  []byte
	CreatedAt string
}
