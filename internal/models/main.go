// Package models defines the core data structures for user accounts.
package models

import "errors"

// ErrDuplicateUsername is reported by the store when persisting an
// account would violate the uniqueness of usernames.
var ErrDuplicateUsername = errors.New("username already exists")

// Account represents one user record.
type Account struct {
	// ID is the unique identifier of the account.
	// Zero means the record has not been persisted yet.
	ID int64 `json:"account_id"`
	// Username is the login name, unique across all accounts.
	Username string `json:"username"`
	// Password is the login credential, stored as given.
	Password string `json:"password"`
}
