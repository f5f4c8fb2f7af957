package auth

import (
	"errors"
	"time"
)

// User represents one account. An account either carries a password hash
// (local signup) or a provider tag (federated signup); the store does not
// force exclusivity.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Provider     string
	CreatedAt    time.Time
}

// Local reports whether the account can authenticate with a password.
func (u *User) Local() bool {
	return u.PasswordHash != ""
}

var (
	// ErrUserNotFound indicates no account exists for the given email.
	ErrUserNotFound = errors.New("auth: user not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrWrongPassword indicates a credential mismatch.
	ErrWrongPassword = errors.New("auth: password mismatch")
	// ErrFederatedOnly indicates a password signin against an account that
	// has no stored password.
	ErrFederatedOnly = errors.New("auth: account has no password")
	// ErrEmailUnverified indicates the identity provider reported an
	// unverified email.
	ErrEmailUnverified = errors.New("auth: email not verified")
)
