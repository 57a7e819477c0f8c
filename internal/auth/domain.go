// Package auth implements cookie-session authentication for the API.
package auth

import "errors"

// ErrInvalidCredentials indicates a failed login attempt. The handler maps
// it to a single generic message so the response never reveals whether the
// email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Account is the authenticated identity, stripped of anything a client
// should not see.
type Account struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int64  `json:"roleId"`
}

type credentials struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
	Active       bool
}
