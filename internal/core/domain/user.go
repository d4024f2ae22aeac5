package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrLoginTaken = errors.New("login already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User models an account that can authenticate against the API.
// PasswordHash holds a bcrypt hash, never the plaintext password, and is
// excluded from every JSON rendering.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Login        string `json:"login" db:"login"`
	PasswordHash string `json:"-" db:"password_hash"`
}
