package model

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a username or email is already registered.
	ErrConflict = errors.New("already registered")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// pattern so that responses do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
