package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both a missing user and a wrong
	// password, so authentication failures don't leak which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateUserParams struct {
	Username     string
	PasswordHash string
}

// Validate validates the create parameters. Password strength is checked
// at the service layer before hashing.
func (p CreateUserParams) Validate() error {
	if p.Username == "" {
		return errors.New("username is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
