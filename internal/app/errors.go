// Package app holds the errors shared by the application services.
package app

import "errors"

var (
	// ErrInvalidInput marks a request the services refuse to plan with.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an unknown venue, talent profile, or roster member.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks a request without a planning session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict marks a duplicate identifier.
	ErrConflict = errors.New("conflict")
)
